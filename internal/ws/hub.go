package ws

import (
	"encoding/json"
	"sync"

	"github.com/comanda-pos/api/internal/enum"
)

// Event represents a WebSocket message pushed to dashboards.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// roleEvent routes an event to the rooms of one or more roles.
type roleEvent struct {
	Roles []string
	Event Event
}

// Hub maintains the set of connected dashboard clients, one room per
// staff role, and broadcasts order and notification events to them.
type Hub struct {
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	broadcast chan *roleEvent

	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roleEvent, 256),
	}
}

// Run starts the hub's main loop. Call as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.role] == nil {
				h.rooms[client.role] = make(map[*Client]bool)
			}
			h.rooms[client.role][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.role]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.role)
					}
				}
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			message, err := json.Marshal(ev.Event)
			if err != nil {
				continue
			}

			h.mu.Lock()
			for _, role := range ev.Roles {
				for client := range h.rooms[role] {
					select {
					case client.send <- message:
					default:
						// Client's send buffer is full, close and unregister
						close(client.send)
						delete(h.rooms[role], client)
						if len(h.rooms[role]) == 0 {
							delete(h.rooms, role)
						}
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoles sends an event to every client whose role is listed.
func (h *Hub) BroadcastToRoles(roles []string, event Event) {
	h.broadcast <- &roleEvent{Roles: roles, Event: event}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event Event) {
	h.BroadcastToRoles([]string{enum.UserRoleAdmin, enum.UserRoleWaiter, enum.UserRoleCook}, event)
}

// Notify implements the store notification sink by pushing the message
// to every dashboard as a "notification" event.
func (h *Hub) Notify(message, severity string) {
	payload, err := json.Marshal(map[string]string{
		"message":  message,
		"severity": severity,
	})
	if err != nil {
		return
	}
	h.Broadcast(Event{Type: "notification", Payload: payload})
}
