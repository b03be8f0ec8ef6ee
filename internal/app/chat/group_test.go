package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
)

func seedGroup(st *memoryStore, id, adminID string, memberIDs ...string) *model.Group {
	now := time.Now().UTC()
	g := &model.Group{
		ID:         id,
		Name:       "Test Group",
		AdminID:    adminID,
		MemberIDs:  memberIDs,
		MessageIDs: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	st.addGroup(g)
	return g
}

func TestGroupDispatcher_FanOutToMembersAndAdmin(t *testing.T) {
	codec := newTestCodec(t)
	st := newMemoryStore()
	st.addUser("user-x", "Xavier", "One")
	st.addUser("user-y", "Yara", "Two")
	st.addUser("user-z", "Zoe", "Admin")
	seedGroup(st, "group-1", "user-z", "user-x", "user-y")

	registry := NewRegistry()
	connX := &fakeConn{}
	connY := &fakeConn{}
	connZ := &fakeConn{}
	registry.Register("user-x", connX)
	registry.Register("user-y", connY)
	registry.Register("user-z", connZ)

	dispatcher := NewGroupDispatcher(codec, st, st, st, registry)

	err := dispatcher.SendGroupMessage(context.Background(), SendGroupMessageInput{
		GroupID:     "group-1",
		Sender:      "user-x",
		Content:     "hi all",
		MessageType: model.MessageTypeText,
	})
	require.NoError(t, err)

	// Every member and the admin received exactly one frame.
	for name, conn := range map[string]*fakeConn{"x": connX, "y": connY, "z": connZ} {
		frames := conn.received()
		require.Len(t, frames, 1, "connection %s", name)
		require.Equal(t, EventReceiveGroupMessage, frames[0].event)

		payload, ok := frames[0].payload.(*MessagePayload)
		require.True(t, ok)
		require.Equal(t, "hi all", payload.Content)
		require.Equal(t, "group-1", payload.GroupID)
		require.Nil(t, payload.Recipient)
	}

	// The persisted record has a null recipient and is linked to the group.
	group, err := st.GetGroupByID(context.Background(), "group-1")
	require.NoError(t, err)
	require.Len(t, group.MessageIDs, 1)

	stored, err := st.GetMessagesByIDs(context.Background(), group.MessageIDs)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Nil(t, stored[0].RecipientID)
}

func TestGroupDispatcher_AdminInMemberListGetsOneFrame(t *testing.T) {
	codec := newTestCodec(t)
	st := newMemoryStore()
	st.addUser("user-a", "Alice", "Admin")
	st.addUser("user-b", "Bob", "Member")
	// The admin also appears in the member list.
	seedGroup(st, "group-1", "user-a", "user-a", "user-b")

	registry := NewRegistry()
	adminConn := &fakeConn{}
	registry.Register("user-a", adminConn)

	dispatcher := NewGroupDispatcher(codec, st, st, st, registry)

	err := dispatcher.SendGroupMessage(context.Background(), SendGroupMessageInput{
		GroupID:     "group-1",
		Sender:      "user-b",
		Content:     "hello",
		MessageType: model.MessageTypeText,
	})
	require.NoError(t, err)

	require.Len(t, adminConn.received(), 1)
}

func TestGroupDispatcher_GroupVanishedLeavesOrphanedMessage(t *testing.T) {
	codec := newTestCodec(t)
	st := newMemoryStore()
	st.addUser("user-a", "Alice", "Smith")
	registry := NewRegistry()

	dispatcher := NewGroupDispatcher(codec, st, st, st, registry)

	err := dispatcher.SendGroupMessage(context.Background(), SendGroupMessageInput{
		GroupID:     "group-missing",
		Sender:      "user-a",
		Content:     "into the void",
		MessageType: model.MessageTypeText,
	})
	require.Error(t, err)

	// The message row was written before the group link failed and is
	// left behind unlinked.
	require.Equal(t, 1, st.messageCount())
}
