package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/crypto"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/store"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/errs"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/logx"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/randx"
)

// GroupDispatcher delivers a message to every member of a group and to its
// admin.
type GroupDispatcher struct {
	codec    *crypto.Codec
	users    store.UserStore
	messages store.MessageStore
	groups   store.GroupStore
	registry *Registry
	logger   zerolog.Logger
}

// NewGroupDispatcher constructs a GroupDispatcher.
func NewGroupDispatcher(codec *crypto.Codec, users store.UserStore, messages store.MessageStore, groups store.GroupStore, registry *Registry) *GroupDispatcher {
	return &GroupDispatcher{
		codec:    codec,
		users:    users,
		messages: messages,
		groups:   groups,
		registry: registry,
		logger:   logx.Logger().With().Str("component", "GroupDispatcher").Logger(),
	}
}

// SendGroupMessage encrypts and persists the message with a null recipient,
// atomically appends it to the group's message list, and pushes a
// receiveGroupMessage event to the members' and the admin's live connections,
// one frame per unique user.
//
// The message row is written before the group link. If the group vanished in
// between, the row stays behind unlinked; the orphan is logged, not retried.
func (d *GroupDispatcher) SendGroupMessage(ctx context.Context, in SendGroupMessageInput) error {
	if len(in.Content) > MaxMessageContentLength {
		return errs.NewError(errs.ErrMessageContentTooLong)
	}

	ciphertext, err := d.codec.Encrypt(in.Content)
	if err != nil {
		return fmt.Errorf("encrypt group message content: %w", err)
	}

	msg := &model.Message{
		ID:        randx.MessageID(),
		SenderID:  in.Sender,
		Content:   ciphertext,
		Type:      in.MessageType,
		FileURL:   in.FileURL,
		Timestamp: time.Now().UTC(),
	}

	if err := d.messages.CreateMessage(ctx, msg); err != nil {
		return fmt.Errorf("persist group message: %w", err)
	}

	if err := d.groups.AppendGroupMessage(ctx, in.GroupID, msg.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			d.logger.Warn().
				Str("message_id", msg.ID).
				Str("group_id", in.GroupID).
				Msg("Group vanished after message persist; message left orphaned.")
		}
		return fmt.Errorf("link message to group %s: %w", in.GroupID, err)
	}

	group, err := d.groups.GetGroupByID(ctx, in.GroupID)
	if err != nil {
		return fmt.Errorf("reload group %s: %w", in.GroupID, err)
	}

	sender, err := d.users.GetUserByID(ctx, in.Sender)
	if err != nil {
		return fmt.Errorf("resolve sender %s: %w", in.Sender, err)
	}

	payload := &MessagePayload{
		ID:          msg.ID,
		Sender:      sender.Profile(),
		Recipient:   nil,
		Content:     in.Content,
		MessageType: msg.Type,
		FileURL:     msg.FileURL,
		Timestamp:   msg.Timestamp,
		GroupID:     group.ID,
	}

	recipients := append(append([]string{}, group.MemberIDs...), group.AdminID)
	delivered := d.registry.Push(EventReceiveGroupMessage, payload, recipients...)

	d.logger.Debug().
		Str("message_id", msg.ID).
		Str("group_id", group.ID).
		Int("members", len(group.MemberIDs)).
		Int("delivered", delivered).
		Msg("Group message dispatched.")

	return nil
}
