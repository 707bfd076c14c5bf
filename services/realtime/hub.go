package realtime

import (
	"context"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Event is the envelope pushed over the socket.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client is one open socket subscribed to a booking's channel.
type Client struct {
	BookingID string
	UserID    string
	Conn      *websocket.Conn
	Send      chan Event

	ctx    context.Context
	cancel context.CancelFunc
}

// Hub fans chat events out to the sockets subscribed to each booking.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: map[string]map[*Client]struct{}{},
	}
}

// AddClient subscribes a connection to a booking's channel and starts its
// write and keep-alive loops.
func (h *Hub) AddClient(bookingID, userID string, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		BookingID: bookingID,
		UserID:    userID,
		Conn:      conn,
		Send:      make(chan Event, 64),
		ctx:       ctx,
		cancel:    cancel,
	}

	h.mu.Lock()
	if h.rooms[bookingID] == nil {
		h.rooms[bookingID] = map[*Client]struct{}{}
	}
	h.rooms[bookingID][c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()
	go c.keepAliveLoop()

	return c
}

// RemoveClient unsubscribes and closes the connection.
func (h *Hub) RemoveClient(c *Client) {
	c.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.rooms[c.BookingID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.rooms, c.BookingID)
		}
	}

	_ = c.Conn.Close(websocket.StatusNormalClosure, "bye")
}

// Broadcast pushes a message event to every socket on the booking's channel.
// Slow consumers get dropped messages rather than blocking the sender.
func (h *Hub) Broadcast(bookingID string, payload interface{}) {
	ev := Event{Type: "message", Data: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[bookingID] {
		select {
		case c.Send <- ev:
		default:
		}
	}
}

// writeLoop drains Send until the client is removed. The channel is never
// closed: a concurrent Broadcast may still hold a reference to it.
func (c *Client) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.Send:
			writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = wsjson.Write(writeCtx, c.Conn, ev)
			cancel()
		}
	}
}

func (c *Client) keepAliveLoop() {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = c.Conn.Ping(pingCtx)
			cancel()
		}
	}
}
