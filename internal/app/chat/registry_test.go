package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterOverwritesExistingHandle(t *testing.T) {
	registry := NewRegistry()
	first := &fakeConn{}
	second := &fakeConn{}

	registry.Register("user-a", first)
	registry.Register("user-a", second)

	require.Equal(t, 1, registry.Len())

	conn, ok := registry.Lookup("user-a")
	require.True(t, ok)
	require.Same(t, second, conn.(*fakeConn))
}

func TestRegistry_RemoveByHandle_StaleHandleIsNoOp(t *testing.T) {
	registry := NewRegistry()
	stale := &fakeConn{}
	current := &fakeConn{}

	// The user reconnected before the old connection's disconnect fired.
	registry.Register("user-a", stale)
	registry.Register("user-a", current)

	removed := registry.RemoveByHandle(stale)
	require.False(t, removed)

	// The new connection must survive the stale disconnect.
	conn, ok := registry.Lookup("user-a")
	require.True(t, ok)
	require.Same(t, current, conn.(*fakeConn))
}

func TestRegistry_RemoveByHandle_CurrentHandle(t *testing.T) {
	registry := NewRegistry()
	conn := &fakeConn{}

	registry.Register("user-a", conn)

	require.True(t, registry.RemoveByHandle(conn))
	require.Equal(t, 0, registry.Len())

	_, ok := registry.Lookup("user-a")
	require.False(t, ok)
}

func TestRegistry_Push_DeduplicatesAndSkipsAbsent(t *testing.T) {
	registry := NewRegistry()
	conn := &fakeConn{}
	registry.Register("user-a", conn)

	delivered := registry.Push("receiveMessage", "payload", "user-a", "user-a", "user-offline")

	require.Equal(t, 1, delivered)
	require.Len(t, conn.received(), 1)
}

func TestRegistry_Push_CountsOnlyAcceptedFrames(t *testing.T) {
	registry := NewRegistry()
	accepting := &fakeConn{}
	full := &fakeConn{reject: true}
	registry.Register("user-a", accepting)
	registry.Register("user-b", full)

	delivered := registry.Push("receiveMessage", "payload", "user-a", "user-b")

	require.Equal(t, 1, delivered)
	require.Len(t, accepting.received(), 1)
	require.Empty(t, full.received())
}
