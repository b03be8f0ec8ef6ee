package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/crypto"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
)

func newTestCodec(t *testing.T) *crypto.Codec {
	t.Helper()
	codec, err := crypto.NewCodec("test_secret_key")
	require.NoError(t, err)
	return codec
}

func TestDirectDispatcher_SendMessage_RecipientOffline(t *testing.T) {
	codec := newTestCodec(t)
	st := newMemoryStore()
	st.addUser("user-a", "Alice", "Smith")
	st.addUser("user-b", "Bob", "Jones")
	registry := NewRegistry()

	senderConn := &fakeConn{}
	registry.Register("user-a", senderConn)
	// user-b has no live connection.

	dispatcher := NewDirectDispatcher(codec, st, st, registry)

	payload, err := dispatcher.SendMessage(context.Background(), SendMessageInput{
		Sender:      "user-a",
		Recipient:   "user-b",
		Content:     "hello bob",
		MessageType: model.MessageTypeText,
	})
	require.NoError(t, err)

	// Exactly one message persisted, addressed to the recipient, with
	// encrypted content.
	require.Equal(t, 1, st.messageCount())
	stored, err := st.GetMessagesByIDs(context.Background(), []string{payload.ID})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "user-a", stored[0].SenderID)
	require.NotNil(t, stored[0].RecipientID)
	require.Equal(t, "user-b", *stored[0].RecipientID)
	require.NotEqual(t, "hello bob", stored[0].Content)

	decrypted, err := codec.Decrypt(stored[0].Content)
	require.NoError(t, err)
	require.Equal(t, "hello bob", decrypted)

	// One push reached the sender's connection; nothing was delivered for
	// the offline recipient.
	frames := senderConn.received()
	require.Len(t, frames, 1)
	require.Equal(t, EventReceiveMessage, frames[0].event)

	pushed, ok := frames[0].payload.(*MessagePayload)
	require.True(t, ok)
	require.Equal(t, "hello bob", pushed.Content)
	require.Equal(t, "user-a", pushed.Sender.ID)
	require.NotNil(t, pushed.Recipient)
	require.Equal(t, "user-b", pushed.Recipient.ID)
	require.Empty(t, pushed.GroupID)
}

func TestDirectDispatcher_SendMessage_BothOnline(t *testing.T) {
	codec := newTestCodec(t)
	st := newMemoryStore()
	st.addUser("user-a", "Alice", "Smith")
	st.addUser("user-b", "Bob", "Jones")
	registry := NewRegistry()

	senderConn := &fakeConn{}
	recipientConn := &fakeConn{}
	registry.Register("user-a", senderConn)
	registry.Register("user-b", recipientConn)

	dispatcher := NewDirectDispatcher(codec, st, st, registry)

	_, err := dispatcher.SendMessage(context.Background(), SendMessageInput{
		Sender:      "user-a",
		Recipient:   "user-b",
		Content:     "hello",
		MessageType: model.MessageTypeText,
	})
	require.NoError(t, err)

	require.Len(t, senderConn.received(), 1)
	require.Len(t, recipientConn.received(), 1)
}

func TestDirectDispatcher_SendMessage_ContentTooLong(t *testing.T) {
	codec := newTestCodec(t)
	st := newMemoryStore()
	st.addUser("user-a", "Alice", "Smith")
	st.addUser("user-b", "Bob", "Jones")

	dispatcher := NewDirectDispatcher(codec, st, st, NewRegistry())

	_, err := dispatcher.SendMessage(context.Background(), SendMessageInput{
		Sender:      "user-a",
		Recipient:   "user-b",
		Content:     strings.Repeat("x", MaxMessageContentLength+1),
		MessageType: model.MessageTypeText,
	})
	require.Error(t, err)
	require.Equal(t, 0, st.messageCount())
}

func TestDirectDispatcher_SendMessage_UnknownRecipient(t *testing.T) {
	codec := newTestCodec(t)
	st := newMemoryStore()
	st.addUser("user-a", "Alice", "Smith")
	registry := NewRegistry()

	dispatcher := NewDirectDispatcher(codec, st, st, registry)

	_, err := dispatcher.SendMessage(context.Background(), SendMessageInput{
		Sender:      "user-a",
		Recipient:   "user-missing",
		Content:     "hello",
		MessageType: model.MessageTypeText,
	})
	require.Error(t, err)
}
