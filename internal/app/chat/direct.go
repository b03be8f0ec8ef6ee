package chat

import (
	"context"
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

// DirectDispatcher delivers a message between two users: it persists the
// encrypted record and pushes the decrypted payload to whichever of the two
// parties is connected.
type DirectDispatcher struct {
	codec    *crypto.Codec
	users    store.UserStore
	messages store.MessageStore
	registry *Registry
	logger   zerolog.Logger
}

// NewDirectDispatcher constructs a DirectDispatcher.
func NewDirectDispatcher(codec *crypto.Codec, users store.UserStore, messages store.MessageStore, registry *Registry) *DirectDispatcher {
	return &DirectDispatcher{
		codec:    codec,
		users:    users,
		messages: messages,
		registry: registry,
		logger:   logx.Logger().With().Str("component", "DirectDispatcher").Logger(),
	}
}

// SendMessage encrypts and persists the message, then pushes a receiveMessage
// event to the sender's and the recipient's live connections independently.
// An absent connection is not an error: the record stays persisted for the
// history API.
func (d *DirectDispatcher) SendMessage(ctx context.Context, in SendMessageInput) (*MessagePayload, error) {
	if len(in.Content) > MaxMessageContentLength {
		return nil, errs.NewError(errs.ErrMessageContentTooLong)
	}

	ciphertext, err := d.codec.Encrypt(in.Content)
	if err != nil {
		return nil, fmt.Errorf("encrypt message content: %w", err)
	}

	recipientID := in.Recipient
	msg := &model.Message{
		ID:          randx.MessageID(),
		SenderID:    in.Sender,
		RecipientID: &recipientID,
		Content:     ciphertext,
		Type:        in.MessageType,
		FileURL:     in.FileURL,
		Timestamp:   time.Now().UTC(),
	}

	if err := d.messages.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("persist message: %w", err)
	}

	sender, err := d.users.GetUserByID(ctx, in.Sender)
	if err != nil {
		return nil, fmt.Errorf("resolve sender %s: %w", in.Sender, err)
	}
	recipient, err := d.users.GetUserByID(ctx, in.Recipient)
	if err != nil {
		return nil, fmt.Errorf("resolve recipient %s: %w", in.Recipient, err)
	}

	// The outbound payload carries plaintext, never ciphertext.
	recipientProfile := recipient.Profile()
	payload := &MessagePayload{
		ID:          msg.ID,
		Sender:      sender.Profile(),
		Recipient:   &recipientProfile,
		Content:     in.Content,
		MessageType: msg.Type,
		FileURL:     msg.FileURL,
		Timestamp:   msg.Timestamp,
	}

	delivered := d.registry.Push(EventReceiveMessage, payload, in.Sender, in.Recipient)

	d.logger.Debug().
		Str("message_id", msg.ID).
		Str("sender", in.Sender).
		Str("recipient", in.Recipient).
		Int("delivered", delivered).
		Msg("Direct message dispatched.")

	return payload, nil
}
