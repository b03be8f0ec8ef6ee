/*
Package chat contains the real-time messaging engine: connection tracking,
presence, message dispatch, and group lifecycle fan-out.

This file defines the Hub, which routes every decoded inbound event through a
dispatch table to its handler. Each event runs in its own goroutine; events
are independent units of work, and a failure in one must never affect
concurrently running events or the registry's consistency.
*/
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/crypto"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/store"
	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/logx"
)

// eventHandler processes one decoded inbound event payload.
type eventHandler func(ctx context.Context, payload json.RawMessage) error

// Hub wires the connection registry, presence tracker, and dispatchers
// together and owns the inbound event dispatch table.
type Hub struct {
	registry  *Registry
	presence  *PresenceTracker
	direct    *DirectDispatcher
	group     *GroupDispatcher
	lifecycle *LifecycleManager

	handlers map[string]eventHandler

	// wg tracks in-flight event goroutines for graceful shutdown.
	wg sync.WaitGroup

	logger zerolog.Logger
}

// NewHub constructs the Hub and all engine components over the given codec
// and store.
func NewHub(codec *crypto.Codec, st store.Store) *Hub {
	registry := NewRegistry()

	h := &Hub{
		registry:  registry,
		presence:  NewPresenceTracker(st, registry),
		direct:    NewDirectDispatcher(codec, st, st, registry),
		group:     NewGroupDispatcher(codec, st, st, st, registry),
		lifecycle: NewLifecycleManager(codec, st, st, st, registry),
		logger:    logx.Logger().With().Str("component", "Hub").Logger(),
	}

	h.handlers = map[string]eventHandler{
		EventSendMessage:      h.handleSendMessage,
		EventSendGroupMessage: h.handleSendGroupMessage,
		EventLeaveGroup:       h.handleLeaveGroup,
		EventDeleteGroup:      h.handleDeleteGroup,
	}

	return h
}

// Registry exposes the connection registry to the transport layer.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Lifecycle exposes the group lifecycle manager to the HTTP layer (group
// creation is an HTTP operation with a synchronous error channel).
func (h *Hub) Lifecycle() *LifecycleManager {
	return h.lifecycle
}

// HandleConnect marks the user online and registers the connection.
func (h *Hub) HandleConnect(ctx context.Context, userID string, conn Conn) {
	h.presence.SetOnline(ctx, userID, conn)
}

// HandleDisconnect marks the user offline and removes the handle by identity.
func (h *Hub) HandleDisconnect(ctx context.Context, userID string, conn Conn) {
	h.presence.SetOffline(ctx, userID, conn)
}

// Dispatch routes one inbound event frame to its handler in a new goroutine.
// Real-time event paths have no error channel back to the originating
// connection; handler failures are logged and the event is dropped.
func (h *Hub) Dispatch(event string, payload json.RawMessage) {
	handler, ok := h.handlers[event]
	if !ok {
		h.logger.Warn().Str("event", event).Msg("Client sent unsupported event.")
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error().Str("event", event).Interface("panic", r).Msg("Recovered from panic in event handler.")
			}
		}()

		if err := handler(context.Background(), payload); err != nil {
			h.logger.Error().Err(err).Str("event", event).Msg("Event handling failed.")
		}
	}()
}

// Shutdown waits for all in-flight event goroutines to finish.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Waiting for in-flight events to drain...")
	h.wg.Wait()
	h.logger.Info().Msg("Hub shutdown complete.")
}

func (h *Hub) handleSendMessage(ctx context.Context, payload json.RawMessage) error {
	var in SendMessageInput
	if err := json.Unmarshal(payload, &in); err != nil {
		return err
	}
	_, err := h.direct.SendMessage(ctx, in)
	return err
}

func (h *Hub) handleSendGroupMessage(ctx context.Context, payload json.RawMessage) error {
	var in SendGroupMessageInput
	if err := json.Unmarshal(payload, &in); err != nil {
		return err
	}
	return h.group.SendGroupMessage(ctx, in)
}

func (h *Hub) handleLeaveGroup(ctx context.Context, payload json.RawMessage) error {
	var in LeaveGroupInput
	if err := json.Unmarshal(payload, &in); err != nil {
		return err
	}
	return h.lifecycle.LeaveGroup(ctx, in)
}

// deleteGroup arrives either as {"groupId": "..."} or as a bare id string.
func (h *Hub) handleDeleteGroup(ctx context.Context, payload json.RawMessage) error {
	var in DeleteGroupInput
	if err := json.Unmarshal(payload, &in); err != nil || in.GroupID == "" {
		var groupID string
		if strErr := json.Unmarshal(payload, &groupID); strErr != nil || groupID == "" {
			return fmt.Errorf("deleteGroup payload carries no group id")
		}
		in.GroupID = groupID
	}
	return h.lifecycle.DeleteGroup(ctx, in.GroupID)
}
