package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/store"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/logx"
)

// PresenceTracker persists online/offline transitions and keeps the
// connection registry in sync with them.
//
// The registry, not the persisted flag, is the source of truth for live push:
// a persistence failure is logged and the registry mutation still proceeds.
type PresenceTracker struct {
	users    store.UserStore
	registry *Registry
	logger   zerolog.Logger
}

// NewPresenceTracker constructs a PresenceTracker over the given user store
// and registry.
func NewPresenceTracker(users store.UserStore, registry *Registry) *PresenceTracker {
	return &PresenceTracker{
		users:    users,
		registry: registry,
		logger:   logx.Logger().With().Str("component", "PresenceTracker").Logger(),
	}
}

// SetOnline persists online=true for the user and registers the connection.
func (t *PresenceTracker) SetOnline(ctx context.Context, userID string, conn Conn) {
	if err := t.users.SetUserOnline(ctx, userID, true); err != nil {
		t.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to persist online status.")
	}

	t.registry.Register(userID, conn)

	t.logger.Info().Str("user_id", userID).Int("connections", t.registry.Len()).Msg("User is online.")
}

// SetOffline persists online=false unconditionally, even when the id has no
// registry entry, and removes the disconnecting handle by identity.
func (t *PresenceTracker) SetOffline(ctx context.Context, userID string, conn Conn) {
	if err := t.users.SetUserOnline(ctx, userID, false); err != nil {
		t.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to persist offline status.")
	}

	removed := t.registry.RemoveByHandle(conn)

	t.logger.Info().
		Str("user_id", userID).
		Bool("handle_removed", removed).
		Int("connections", t.registry.Len()).
		Msg("User is offline.")
}
