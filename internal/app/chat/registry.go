/*
Package chat contains the real-time messaging engine: connection tracking,
presence, message dispatch, and group lifecycle fan-out.

This file defines the connection registry, the single piece of shared mutable
state in the process. It maps user ids to live connection handles and is
rebuilt from scratch on restart; every client must reconnect.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/logx"
)

// Conn is a live connection handle. Send queues one outbound event frame and
// reports whether it was accepted; it must never block the caller.
type Conn interface {
	Send(event string, payload any) bool
}

// Registry maps user ids to live connection handles. At most one entry exists
// per user id; a later Register for the same id overwrites the earlier handle.
// The raw map is never exposed to dispatch logic.
type Registry struct {
	// mu protects concurrent access to the conns map.
	mu sync.RWMutex

	conns map[string]Conn

	logger zerolog.Logger
}

// NewRegistry constructs an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]Conn),
		logger: logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Register inserts or overwrites the mapping for userID.
func (r *Registry) Register(userID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[userID]; ok {
		r.logger.Info().Str("user_id", userID).Msg("Replacing existing connection for user.")
	}
	r.conns[userID] = conn
}

// Lookup returns the live connection for userID, if any.
func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[userID]
	return conn, ok
}

// RemoveByHandle scans all entries and deletes the one whose stored handle is
// the given connection, regardless of its current key. A disconnect is scoped
// to a connection, not a user id: when a user reconnects before the old
// connection's disconnect fires, the stale disconnect must not evict the new
// handle. The scan is O(active connections), acceptable at moderate scale.
func (r *Registry) RemoveByHandle(conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, stored := range r.conns {
		if stored == conn {
			delete(r.conns, userID)
			return true
		}
	}
	return false
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}

// Push sends one event frame to the live connection of every listed user.
// User ids are deduplicated first, so a user appearing on several axes (for
// example a group admin who is also in the member list) receives exactly one
// push. Absent connections are skipped; the number of delivered frames is
// returned.
func (r *Registry) Push(event string, payload any, userIDs ...string) int {
	delivered := 0
	seen := make(map[string]struct{}, len(userIDs))

	for _, userID := range userIDs {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		conn, ok := r.Lookup(userID)
		if !ok {
			continue
		}

		if conn.Send(event, payload) {
			delivered++
		} else {
			r.logger.Warn().
				Str("user_id", userID).
				Str("event", event).
				Msg("Dropped outbound event: connection send queue refused frame.")
		}
	}

	return delivered
}
