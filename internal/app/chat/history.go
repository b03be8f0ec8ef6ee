package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/crypto"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
)

// decodeFailedPlaceholder replaces content that cannot be decrypted, so one
// corrupted record never aborts an entire history batch.
const decodeFailedPlaceholder = "[unreadable message]"

// ListUserGroups returns every group where the user is the admin or a member,
// most recently updated first, with admin and members resolved.
func (m *LifecycleManager) ListUserGroups(ctx context.Context, userID string) ([]model.GroupView, error) {
	groups, err := m.groups.ListUserGroups(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups for user %s: %w", userID, err)
	}

	views := make([]model.GroupView, 0, len(groups))
	for i := range groups {
		view, err := resolveGroupView(ctx, m.users, &groups[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return views, nil
}

// GroupMessages returns the group's message history in chronological order
// with content decrypted and senders resolved. A message whose content cannot
// be decoded is kept with a placeholder instead of failing the batch.
func (m *LifecycleManager) GroupMessages(ctx context.Context, groupID string) ([]MessagePayload, error) {
	group, err := m.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load group %s: %w", groupID, err)
	}

	messages, err := m.messages.GetMessagesByIDs(ctx, group.MessageIDs)
	if err != nil {
		return nil, fmt.Errorf("load group %s messages: %w", groupID, err)
	}

	senderIDs := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, msg := range messages {
		if _, ok := seen[msg.SenderID]; !ok {
			seen[msg.SenderID] = struct{}{}
			senderIDs = append(senderIDs, msg.SenderID)
		}
	}

	senders, err := m.users.GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve message senders: %w", err)
	}
	profiles := make(map[string]model.Profile, len(senders))
	for _, u := range senders {
		profiles[u.ID] = u.Profile()
	}

	payloads := make([]MessagePayload, 0, len(messages))
	for _, msg := range messages {
		content, err := m.codec.Decrypt(msg.Content)
		if err != nil {
			var decodeErr *crypto.DecodeError
			if !errors.As(err, &decodeErr) {
				return nil, fmt.Errorf("decrypt message %s: %w", msg.ID, err)
			}
			m.logger.Warn().Str("message_id", msg.ID).Err(err).Msg("Skipping undecodable message content.")
			content = decodeFailedPlaceholder
		}

		payloads = append(payloads, MessagePayload{
			ID:          msg.ID,
			Sender:      profiles[msg.SenderID],
			Recipient:   nil,
			Content:     content,
			MessageType: msg.Type,
			FileURL:     msg.FileURL,
			Timestamp:   msg.Timestamp,
			GroupID:     group.ID,
		})
	}

	return payloads, nil
}
