package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/braseiro-pdv/api/internal/service"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// terminalEvent is an internal struct for routing events to specific terminals
type terminalEvent struct {
	TerminalID string
	Event      Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Rooms are keyed by PDV terminal ID so each cashier screen only sees its
// own toasts and order confirmations.
type Hub struct {
	// Registered clients by terminal ID
	rooms map[string]map[*Client]bool

	// Inbound messages from clients (register/unregister)
	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *terminalEvent

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *terminalEvent, 256),
	}
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.terminalID] == nil {
				h.rooms[client.terminalID] = make(map[*Client]bool)
			}
			h.rooms[client.terminalID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.terminalID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					// Clean up empty rooms
					if len(clients) == 0 {
						delete(h.rooms, client.terminalID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.TerminalID]

			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			// Send to all clients on this terminal
			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[event.TerminalID], client)
					if len(h.rooms[event.TerminalID]) == 0 {
						delete(h.rooms, event.TerminalID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToTerminal sends an event to all clients subscribed to a specific
// terminal. This is the public API for handlers to broadcast events.
func (h *Hub) BroadcastToTerminal(terminalID string, event Event) {
	h.broadcast <- &terminalEvent{
		TerminalID: terminalID,
		Event:      event,
	}
}

// Notify implements service.Notifier: finalize-flow notifications arrive on
// the terminal that triggered them.
func (h *Hub) Notify(terminalID string, event service.Notification) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR: failed to marshal notification: %v", err)
		return
	}
	h.BroadcastToTerminal(terminalID, Event{
		Type:    event.Type,
		Payload: payload,
	})
}
