package service

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

// Rooms are isolated broadcast domains. A client belongs to exactly one.
// The two chat rooms' names are also the chat_type values stored with their
// messages; there is no separate chat-kind constant set.
const (
	RoomPublic   = "public"
	RoomAdmin    = "admin"
	RoomMessages = "messages"
)

// ValidRoom reports whether name is a known room.
func ValidRoom(name string) bool {
	switch name {
	case RoomPublic, RoomAdmin, RoomMessages:
		return true
	}
	return false
}

// Client is one WebSocket listener attached to a room. UserID is 0 for
// anonymous connections. The Conn is only touched by the connection's own
// writer goroutine; the hub communicates through Send.
type Client struct {
	Conn     *websocket.Conn
	Room     string
	UserID   int64
	Username string
	Role     string
	Send     chan []byte
}

type roomEvent struct {
	room string
	data []byte
}

// Hub owns the per-room listener sets and fans events out to them.
// Delivery is at-most-once and fire-and-forget: a client whose send buffer
// is full is dropped rather than awaited, and nothing is retried. Missed
// events are recovered by the init snapshot on the next connect.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomEvent
	mu         sync.RWMutex
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomEvent, 256),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.Room] == nil {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			total := len(h.rooms[client.Room])
			h.mu.Unlock()
			log.Printf("[ws] %s joined %s (room total: %d)", clientName(client), client.Room, total)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
				}
			}
			h.mu.Unlock()
			log.Printf("[ws] %s left %s", clientName(client), client.Room)

		case ev := <-h.broadcast:
			h.mu.Lock()
			for client := range h.rooms[ev.room] {
				select {
				case client.Send <- ev.data:
				default:
					// Slow client: drop it instead of blocking the room.
					close(client.Send)
					delete(h.rooms[ev.room], client)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

func (h *Hub) Shutdown() {
	close(h.done)
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish delivers an event to every client currently attached to room.
// No acknowledgement, no retry: a listener not connected at publish time
// never receives the event.
func (h *Hub) Publish(room, eventType string, payload any) {
	ev, err := model.NewWSEvent(eventType, payload)
	if err != nil {
		log.Printf("[ws] marshal %s event: %v", eventType, err)
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- roomEvent{room: room, data: data}:
	case <-h.done:
	}
}

// RoomCount returns the number of clients attached to room.
func (h *Hub) RoomCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// OnlineCount returns the number of clients across all rooms.
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, clients := range h.rooms {
		total += len(clients)
	}
	return total
}

func clientName(c *Client) string {
	if c.Username == "" {
		return "anonymous"
	}
	return c.Username
}
