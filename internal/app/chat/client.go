/*
Package chat contains the real-time messaging engine: connection tracking,
presence, message dispatch, and group lifecycle fan-out.

This file defines the Client struct, representing an active WebSocket
connection. It manages the connection's lifecycle, the read and write pumps,
and the hand-off of decoded inbound frames to the Hub.
*/
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// sendQueueSize is the outbound buffer per connection. A full buffer
	// drops the frame rather than blocking the dispatching event.
	sendQueueSize = 256
)

// Client represents an active WebSocket connection and the user it belongs
// to. It implements Conn; the user id is fixed at handshake time.
type Client struct {
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// UserID is the connection-time user identifier from the handshake.
	UserID string

	// a buffered channel used to queue frames waiting to be sent to the client.
	send chan []byte

	// mu guards closed. Dispatch goroutines may hold this handle past the
	// disconnect, so Send and the channel close must agree on its state.
	mu     sync.Mutex
	closed bool

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection.
func NewClient(hub *Hub, wsConn *websocket.Conn, userID string) *Client {
	clientLogger := logx.Logger().With().
		Str("component", "Client").
		Str("user_id", userID).
		Logger()

	return &Client{
		hub:    hub,
		conn:   wsConn,
		UserID: userID,
		send:   make(chan []byte, sendQueueSize),
		logger: clientLogger,
	}
}

// Send queues one outbound event frame. It never blocks; a full queue or an
// already disconnected client drops the frame and returns false.
func (c *Client) Send(event string, payload any) bool {
	raw, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Error marshaling event payload.")
		return false
	}

	frame, err := json.Marshal(Envelope{Event: event, Payload: raw})
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Error marshaling event frame.")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Debug().Str("event", event).Msg("Client already disconnected, dropping frame.")
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		c.logger.Warn().Str("event", event).Int("queue_len", len(c.send)).Msg("Client send channel full, dropping frame.")
		return false
	}
}

// closeSend marks the client closed and closes the send channel exactly once.
// After it returns, Send refuses frames instead of touching the channel.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump handles reading frames from the WebSocket connection. It handles
// heartbeats (Pong), frame decoding, and performs presence cleanup when the
// connection closes.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (Client close/going away)")
			}
			break
		}

		c.processInboundFrame(frameBytes)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.HandleDisconnect(context.Background(), c.UserID, c)

	c.closeSend()

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundFrame decodes an inbound frame and hands it to the Hub.
func (c *Client) processInboundFrame(frameBytes []byte) {
	var frame Envelope
	if err := json.Unmarshal(frameBytes, &frame); err != nil {
		c.logger.Warn().Err(err).Bytes("frame_bytes", frameBytes).Msg("Client sent invalid JSON")
		return
	}

	c.hub.Dispatch(frame.Event, frame.Payload)
}

// WritePump handles writing frames from the Client.send channel to the
// WebSocket connection, and keeps the heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame handles frames pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
