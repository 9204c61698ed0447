// Package websocket
package websocket

import (
	"encoding/json"

	"pulserelay/internal/logger"
)

// Hub fans accepted snapshots out to connected dashboard clients.
// Clients only listen; a client whose send buffer stays full is
// dropped rather than allowed to stall the broadcast.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan []byte

	log logger.Logger
}

type event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan []byte, 64),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("ws: client registered", "total_clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Info("ws: client unregistered", "total_clients", len(h.clients))
			}

		case message := <-h.events:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.log.Warn("ws: client channel full, dropping client")
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Emit broadcasts one named event to every connected client.
func (h *Hub) Emit(name string, payload any) {
	message, err := json.Marshal(event{Event: name, Payload: payload})
	if err != nil {
		h.log.Error("ws: failed to marshal event", "event", name, "error", err)
		return
	}

	select {
	case h.events <- message:
	default:
		h.log.Warn("ws: event buffer full, dropping event", "event", name)
	}
}
