package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// AdminRoom receives every admin-facing event
const AdminRoom = "admin"

// UserRoom names the per-user room keyed by email
func UserRoom(email string) string {
	return "user_" + email
}

// Envelope is the wire format for every pushed event
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client is one connected subscriber. Its send buffer is bounded; a slow
// consumer drops events instead of blocking emitters. Missed events are
// gone — durable state lives in notification records, not here.
type Client struct {
	ID   string
	send chan []byte
}

// Messages returns the channel the socket writer drains
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// Hub is the shared fan-out channel for real-time events. Any number of
// subscribers may join a room; emitting to a room reaches every member
// currently connected.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// Register creates a client not yet joined to any room
func (h *Hub) Register() *Client {
	return &Client{
		ID:   uuid.NewString(),
		send: make(chan []byte, 16),
	}
}

// Join adds the client to a room
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
}

// Unregister removes the client from every room
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomSize reports how many clients are currently in a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Emit publishes an event to every client in the given rooms. A client in
// several of the rooms receives the event once. Emit never blocks: full
// buffers drop the event for that client.
func (h *Hub) Emit(event string, payload interface{}, rooms ...string) {
	body, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		log.Printf("Failed to encode %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := make(map[*Client]struct{})
	for _, room := range rooms {
		for client := range h.rooms[room] {
			if _, done := delivered[client]; done {
				continue
			}
			delivered[client] = struct{}{}
			select {
			case client.send <- body:
			default:
				log.Printf("Dropping %s event for slow client %s", event, client.ID)
			}
		}
	}
}
