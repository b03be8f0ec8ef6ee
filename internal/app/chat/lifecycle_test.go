package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/errs"
)

func newTestLifecycleManager(t *testing.T, st *memoryStore, registry *Registry) *LifecycleManager {
	t.Helper()
	return NewLifecycleManager(newTestCodec(t), st, st, st, registry)
}

func TestLifecycleManager_CreateGroup(t *testing.T) {
	st := newMemoryStore()
	st.addUser("user-admin", "Alice", "Smith")
	st.addUser("user-b", "Bob", "Jones")
	st.addUser("user-c", "Carol", "Brown")
	registry := NewRegistry()
	manager := newTestLifecycleManager(t, st, registry)

	view, createErr := manager.CreateGroup(context.Background(), CreateGroupInput{
		AdminID:   "user-admin",
		Name:      "Trip Planning",
		MemberIDs: []string{"user-b", "user-c"},
	})
	require.Nil(t, createErr)
	require.NotEmpty(t, view.ID)
	require.Equal(t, "Trip Planning", view.Name)
	require.Equal(t, "user-admin", view.Admin.ID)
	require.Len(t, view.Members, 2)

	// The group starts with the group-created system message as its only
	// entry.
	require.Len(t, view.MessageIDs, 1)
	require.Equal(t, 1, st.messageCount())

	stored, err := st.GetMessagesByIDs(context.Background(), view.MessageIDs)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, model.MessageTypeGroupCreated, stored[0].Type)
	require.Equal(t, "user-admin", stored[0].SenderID)
	require.Nil(t, stored[0].RecipientID)

	content, err := newTestCodec(t).Decrypt(stored[0].Content)
	require.NoError(t, err)
	require.Equal(t, `Alice Smith created the group "Trip Planning"`, content)
}

func TestLifecycleManager_CreateGroup_UnknownMemberAbortsCleanly(t *testing.T) {
	st := newMemoryStore()
	st.addUser("user-admin", "Alice", "Smith")
	st.addUser("user-b", "Bob", "Jones")
	registry := NewRegistry()
	manager := newTestLifecycleManager(t, st, registry)

	_, createErr := manager.CreateGroup(context.Background(), CreateGroupInput{
		AdminID:   "user-admin",
		Name:      "Broken",
		MemberIDs: []string{"user-b", "user-missing"},
	})
	require.NotNil(t, createErr)
	require.Equal(t, errs.ErrInvalidGroupMembers, createErr.Code)

	// Nothing was persisted: no group and no orphaned system message.
	require.Empty(t, st.groups)
	require.Equal(t, 0, st.messageCount())
}

func TestLifecycleManager_CreateGroup_StoreFailureLeavesNoOrphan(t *testing.T) {
	st := newMemoryStore()
	st.addUser("user-admin", "Alice", "Smith")
	st.addUser("user-b", "Bob", "Jones")
	st.failCreateGroup = true
	registry := NewRegistry()
	manager := newTestLifecycleManager(t, st, registry)

	_, createErr := manager.CreateGroup(context.Background(), CreateGroupInput{
		AdminID:   "user-admin",
		Name:      "Doomed",
		MemberIDs: []string{"user-b"},
	})
	require.NotNil(t, createErr)
	require.Equal(t, errs.ErrUnknown, createErr.Code)

	// The message and the group commit together; a failed creation leaves
	// neither behind.
	require.Equal(t, 0, st.messageCount())
}

func TestLifecycleManager_CreateGroup_UnknownAdmin(t *testing.T) {
	st := newMemoryStore()
	registry := NewRegistry()
	manager := newTestLifecycleManager(t, st, registry)

	_, createErr := manager.CreateGroup(context.Background(), CreateGroupInput{
		AdminID:   "user-missing",
		Name:      "No Admin",
		MemberIDs: []string{},
	})
	require.NotNil(t, createErr)
	require.Equal(t, errs.ErrUserNotFound, createErr.Code)
}

func TestLifecycleManager_LeaveGroup(t *testing.T) {
	st := newMemoryStore()
	st.addUser("user-admin", "Alice", "Admin")
	st.addUser("user-a", "Amy", "One")
	st.addUser("user-b", "Ben", "Two")
	seedGroup(st, "group-1", "user-admin", "user-a", "user-b")

	registry := NewRegistry()
	connAdmin := &fakeConn{}
	connA := &fakeConn{}
	connB := &fakeConn{}
	registry.Register("user-admin", connAdmin)
	registry.Register("user-a", connA)
	registry.Register("user-b", connB)

	manager := newTestLifecycleManager(t, st, registry)

	err := manager.LeaveGroup(context.Background(), LeaveGroupInput{
		GroupID:       "group-1",
		LeavingMember: "user-b",
	})
	require.NoError(t, err)

	group, err := st.GetGroupByID(context.Background(), "group-1")
	require.NoError(t, err)
	require.Equal(t, []string{"user-a"}, group.MemberIDs)
	require.Len(t, group.MessageIDs, 1)

	// The remaining member, the admin, and the leaver each get exactly one
	// memberLeft event.
	for name, conn := range map[string]*fakeConn{"admin": connAdmin, "a": connA, "b": connB} {
		frames := conn.received()
		require.Len(t, frames, 1, "connection %s", name)
		require.Equal(t, EventMemberLeft, frames[0].event)

		payload, ok := frames[0].payload.(*MemberLeftPayload)
		require.True(t, ok)
		require.Equal(t, "user-b", payload.LeavingMemberID)
		require.Equal(t, "Ben Two left the group", payload.Message.Content)
		require.Equal(t, model.MessageTypeMemberLeft, payload.Message.MessageType)
		require.Equal(t, []string{"user-a"}, memberIDs(payload.Group.Members))
	}

	// The member-left system message is persisted encrypted.
	stored, err := st.GetMessagesByIDs(context.Background(), group.MessageIDs)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.NotEqual(t, "Ben Two left the group", stored[0].Content)
}

func memberIDs(profiles []model.Profile) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.ID)
	}
	return out
}

func TestLifecycleManager_DeleteGroup(t *testing.T) {
	st := newMemoryStore()
	st.addUser("user-admin", "Alice", "Admin")
	st.addUser("user-a", "Amy", "One")
	st.addUser("user-b", "Ben", "Two")
	group := seedGroup(st, "group-1", "user-admin", "user-a", "user-b")

	// Link a few messages to the group.
	codec := newTestCodec(t)
	dispatcher := NewGroupDispatcher(codec, st, st, st, NewRegistry())
	for i := 0; i < 3; i++ {
		err := dispatcher.SendGroupMessage(context.Background(), SendGroupMessageInput{
			GroupID:     group.ID,
			Sender:      "user-a",
			Content:     "message",
			MessageType: model.MessageTypeText,
		})
		require.NoError(t, err)
	}
	require.Equal(t, 3, st.messageCount())

	registry := NewRegistry()
	connAdmin := &fakeConn{}
	connA := &fakeConn{}
	registry.Register("user-admin", connAdmin)
	registry.Register("user-a", connA)
	manager := NewLifecycleManager(codec, st, st, st, registry)

	err := manager.DeleteGroup(context.Background(), group.ID)
	require.NoError(t, err)

	// The group and every linked message are gone.
	_, err = st.GetGroupByID(context.Background(), group.ID)
	require.Error(t, err)
	require.Equal(t, 0, st.messageCount())

	for name, conn := range map[string]*fakeConn{"admin": connAdmin, "a": connA} {
		frames := conn.received()
		require.Len(t, frames, 1, "connection %s", name)
		require.Equal(t, EventGroupDeleted, frames[0].event)

		payload, ok := frames[0].payload.(*GroupDeletedPayload)
		require.True(t, ok)
		require.Equal(t, group.ID, payload.GroupID)
		require.Equal(t, "Test Group", payload.GroupName)
		require.Equal(t, "Alice Admin", payload.GroupAdmin)
	}
}

func TestLifecycleManager_SetGroupPic(t *testing.T) {
	st := newMemoryStore()
	st.addUser("user-admin", "Alice", "Admin")
	group := seedGroup(st, "group-1", "user-admin")
	group.Pic = "group-pic/old.png"

	manager := newTestLifecycleManager(t, st, NewRegistry())

	oldKey, view, err := manager.SetGroupPic(context.Background(), "group-1", "group-pic/new.png")
	require.NoError(t, err)
	require.Equal(t, "group-pic/old.png", oldKey)
	require.Equal(t, "group-pic/new.png", view.Pic)

	// Clearing returns the current key and leaves the pic empty.
	oldKey, view, err = manager.SetGroupPic(context.Background(), "group-1", "")
	require.NoError(t, err)
	require.Equal(t, "group-pic/new.png", oldKey)
	require.Empty(t, view.Pic)
}

func TestLifecycleManager_DeleteGroup_Missing(t *testing.T) {
	st := newMemoryStore()
	manager := newTestLifecycleManager(t, st, NewRegistry())

	err := manager.DeleteGroup(context.Background(), "group-missing")
	require.Error(t, err)
}
