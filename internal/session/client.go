package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
)

const (
	writeTimeout    = 10 * time.Second
	pingInterval    = 30 * time.Second
	maxMessageBytes = 64 * 1024
	outboxSize      = 256
)

// Client is one websocket connection inside a venue room. Outbound messages
// queue on the outbox; a full outbox drops messages rather than stalling the
// room, and the drop count is reported when the client leaves.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	outbox  chan []byte
	dropped atomic.Int64

	UserID      string
	DisplayName string
	VenueID     string
	ClientID    string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, venueID, clientID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		outbox:      make(chan []byte, outboxSize),
		UserID:      userID,
		DisplayName: displayName,
		VenueID:     venueID,
		ClientID:    clientID,
	}
}

// Run serves the connection until the peer goes away or ctx ends. It blocks
// on the read side; the write side runs in its own goroutine.
func (c *Client) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writeLoop(ctx)
	c.readLoop(ctx)
}

func (c *Client) readLoop(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
		if n := c.dropped.Load(); n > 0 {
			slog.Warn("client left with dropped messages", "user", c.UserID, "dropped", n)
		}
	}()

	c.conn.SetReadLimit(maxMessageBytes)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure &&
				status != websocket.StatusGoingAway {
				slog.Debug("read error", "error", err, "user", c.UserID)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.SendError("malformed message")
			continue
		}

		// The server, not the peer, decides who the message is from.
		msg.UserID = c.UserID
		msg.ClientID = c.ClientID
		msg.VenueID = c.VenueID

		c.hub.handleMessage(c, &msg)
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-c.outbox:
			if !ok {
				return
			}
			if err := c.write(ctx, data); err != nil {
				slog.Debug("write error", "error", err, "user", c.UserID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) write(ctx context.Context, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(writeCtx, websocket.MessageText, data)
}

// Send queues a message for the client without blocking the caller.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.outbox <- data:
	default:
		c.dropped.Add(1)
	}
}

// SendError tells the peer its last message was rejected.
func (c *Client) SendError(reason string) {
	payload, _ := json.Marshal(ErrorPayload{Error: reason})
	c.Send(&Message{Type: TypeError, Payload: payload})
}
