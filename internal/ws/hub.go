// Package ws fans live chat events out to connected participants. The
// database is the source of truth for messages; the hub only mirrors
// committed writes to open sockets.
package ws

import (
	"encoding/json"
	"sync"
)

// Client represents a single WebSocket connection with user context.
type Client struct {
	UserID uint
	Send   chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(userID uint) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 256)}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// Room is one escrow chat's set of live connections. Both sides may hold
// multiple connections at once.
type Room struct {
	ChatID   uint
	BuyerID  uint
	SellerID uint

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func newRoom(chatID, buyerID, sellerID uint) *Room {
	return &Room{
		ChatID:   chatID,
		BuyerID:  buyerID,
		SellerID: sellerID,
		clients:  make(map[*Client]struct{}),
	}
}

func (r *Room) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *Room) Leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
}

func (r *Room) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast sends payload to every connection in the room except from.
// Slow consumers are skipped rather than blocking the sender.
func (r *Room) Broadcast(from *Client, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		if c != from {
			clients = append(clients, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// Hub holds all live chat rooms by chat ID.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]*Room
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]*Room)}
}

func (h *Hub) GetOrCreateRoom(chatID, buyerID, sellerID uint) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[chatID]; ok {
		return r
	}
	r := newRoom(chatID, buyerID, sellerID)
	h.rooms[chatID] = r
	return r
}

func (h *Hub) GetRoom(chatID uint) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[chatID]
}

// NotifyChat pushes an event to a room if anyone is connected. Used by
// handlers after a committed write (message sent, chat closed).
func (h *Hub) NotifyChat(chatID uint, payload interface{}) {
	if r := h.GetRoom(chatID); r != nil {
		r.Broadcast(nil, payload)
	}
}

func (h *Hub) RemoveRoom(chatID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, chatID)
}
