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

// CreateGroupInput carries the parameters of a group creation request.
type CreateGroupInput struct {
	AdminID     string
	Name        string
	Description string
	Pic         string
	MemberIDs   []string
}

// LifecycleManager handles group creation, member departure, and group
// deletion, each with its system message and multi-recipient notification.
type LifecycleManager struct {
	codec    *crypto.Codec
	users    store.UserStore
	messages store.MessageStore
	groups   store.GroupStore
	registry *Registry
	logger   zerolog.Logger
}

// NewLifecycleManager constructs a LifecycleManager.
func NewLifecycleManager(codec *crypto.Codec, users store.UserStore, messages store.MessageStore, groups store.GroupStore, registry *Registry) *LifecycleManager {
	return &LifecycleManager{
		codec:    codec,
		users:    users,
		messages: messages,
		groups:   groups,
		registry: registry,
		logger:   logx.Logger().With().Str("component", "LifecycleManager").Logger(),
	}
}

// CreateGroup validates the admin and member references, records the
// group-created system message, and creates the group referencing that
// message as its first entry. Message and group commit in one transaction.
// The returned group has admin and members resolved.
func (m *LifecycleManager) CreateGroup(ctx context.Context, in CreateGroupInput) (*model.GroupView, *errs.CustomError) {
	admin, err := m.users.GetUserByID(ctx, in.AdminID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NewError(errs.ErrUserNotFound)
		}
		m.logger.Error().Err(err).Str("admin_id", in.AdminID).Msg("Failed to resolve group admin.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	// Any unknown member id aborts the whole operation.
	validMembers, err := m.users.GetUsersByIDs(ctx, in.MemberIDs)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to resolve group members.")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	if len(validMembers) != len(in.MemberIDs) {
		m.logger.Warn().
			Int("requested", len(in.MemberIDs)).
			Int("resolved", len(validMembers)).
			Msg("Group creation rejected: unknown member ids.")
		return nil, errs.NewError(errs.ErrInvalidGroupMembers)
	}

	content := fmt.Sprintf("%s created the group %q", admin.DisplayName(), in.Name)
	ciphertext, err := m.codec.Encrypt(content)
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to encrypt group-created message.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	sysMsg := &model.Message{
		ID:        randx.MessageID(),
		SenderID:  admin.ID,
		Content:   ciphertext,
		Type:      model.MessageTypeGroupCreated,
		Timestamp: time.Now().UTC(),
	}

	now := time.Now().UTC()
	group := &model.Group{
		ID:          randx.GroupID(),
		Name:        in.Name,
		Description: in.Description,
		Pic:         in.Pic,
		AdminID:     admin.ID,
		MemberIDs:   in.MemberIDs,
		MessageIDs:  []string{sysMsg.ID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.groups.CreateGroup(ctx, group, sysMsg); err != nil {
		m.logger.Error().Err(err).Str("group_name", in.Name).Msg("Failed to create group.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	view, err := resolveGroupView(ctx, m.users, group)
	if err != nil {
		m.logger.Error().Err(err).Str("group_id", group.ID).Msg("Failed to resolve created group.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	m.logger.Info().
		Str("group_id", group.ID).
		Str("admin_id", admin.ID).
		Int("members", len(in.MemberIDs)).
		Msg("Group created.")

	return view, nil
}

// LeaveGroup removes the member from the group, records the member-left
// system message, and pushes a memberLeft event to every remaining member,
// the admin, and the leaver's own connection (so their client can react even
// though they are no longer a member).
func (m *LifecycleManager) LeaveGroup(ctx context.Context, in LeaveGroupInput) error {
	group, err := m.groups.GetGroupByID(ctx, in.GroupID)
	if err != nil {
		return fmt.Errorf("load group %s: %w", in.GroupID, err)
	}

	leaver, err := m.users.GetUserByID(ctx, in.LeavingMember)
	if err != nil {
		return fmt.Errorf("resolve leaving member %s: %w", in.LeavingMember, err)
	}

	remaining := make([]string, 0, len(group.MemberIDs))
	for _, id := range group.MemberIDs {
		if id != in.LeavingMember {
			remaining = append(remaining, id)
		}
	}

	content := fmt.Sprintf("%s left the group", leaver.DisplayName())
	ciphertext, err := m.codec.Encrypt(content)
	if err != nil {
		return fmt.Errorf("encrypt member-left message: %w", err)
	}

	sysMsg := &model.Message{
		ID:        randx.MessageID(),
		SenderID:  leaver.ID,
		Content:   ciphertext,
		Type:      model.MessageTypeMemberLeft,
		Timestamp: time.Now().UTC(),
	}

	if err := m.messages.CreateMessage(ctx, sysMsg); err != nil {
		return fmt.Errorf("persist member-left message: %w", err)
	}

	if err := m.groups.UpdateGroupMembers(ctx, in.GroupID, remaining, sysMsg.ID); err != nil {
		return fmt.Errorf("update group %s membership: %w", in.GroupID, err)
	}

	updated, err := m.groups.GetGroupByID(ctx, in.GroupID)
	if err != nil {
		return fmt.Errorf("reload group %s: %w", in.GroupID, err)
	}

	view, err := resolveGroupView(ctx, m.users, updated)
	if err != nil {
		return fmt.Errorf("resolve updated group %s: %w", in.GroupID, err)
	}

	payload := &MemberLeftPayload{
		Message: MessagePayload{
			ID:          sysMsg.ID,
			Sender:      leaver.Profile(),
			Recipient:   nil,
			Content:     content,
			MessageType: sysMsg.Type,
			Timestamp:   sysMsg.Timestamp,
			GroupID:     updated.ID,
		},
		Group:           *view,
		LeavingMemberID: leaver.ID,
	}

	recipients := append(append([]string{}, updated.MemberIDs...), updated.AdminID, leaver.ID)
	delivered := m.registry.Push(EventMemberLeft, payload, recipients...)

	m.logger.Info().
		Str("group_id", updated.ID).
		Str("leaving_member", leaver.ID).
		Int("remaining", len(updated.MemberIDs)).
		Int("delivered", delivered).
		Msg("Member left group.")

	return nil
}

// SetGroupPic replaces the group's picture reference and returns the
// previous one so the caller can release the old stored object.
func (m *LifecycleManager) SetGroupPic(ctx context.Context, groupID, picKey string) (string, *model.GroupView, error) {
	group, err := m.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return "", nil, fmt.Errorf("load group %s: %w", groupID, err)
	}

	if err := m.groups.UpdateGroupPic(ctx, groupID, picKey); err != nil {
		return "", nil, fmt.Errorf("update group %s pic: %w", groupID, err)
	}

	updated, err := m.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return "", nil, fmt.Errorf("reload group %s: %w", groupID, err)
	}

	view, err := resolveGroupView(ctx, m.users, updated)
	if err != nil {
		return "", nil, fmt.Errorf("resolve updated group %s: %w", groupID, err)
	}

	return group.Pic, view, nil
}

// DeleteGroup removes every message linked to the group and the group record
// itself in one transaction, then pushes a groupDeleted event to every former
// member and the admin.
func (m *LifecycleManager) DeleteGroup(ctx context.Context, groupID string) error {
	group, err := m.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("load group %s: %w", groupID, err)
	}

	admin, err := m.users.GetUserByID(ctx, group.AdminID)
	if err != nil {
		return fmt.Errorf("resolve group admin %s: %w", group.AdminID, err)
	}

	if err := m.groups.DeleteGroup(ctx, groupID, group.MessageIDs); err != nil {
		return fmt.Errorf("delete group %s: %w", groupID, err)
	}

	payload := &GroupDeletedPayload{
		GroupID:    group.ID,
		GroupName:  group.Name,
		GroupAdmin: admin.DisplayName(),
	}

	recipients := append(append([]string{}, group.MemberIDs...), group.AdminID)
	delivered := m.registry.Push(EventGroupDeleted, payload, recipients...)

	m.logger.Info().
		Str("group_id", group.ID).
		Int("messages_deleted", len(group.MessageIDs)).
		Int("delivered", delivered).
		Msg("Group deleted.")

	return nil
}
