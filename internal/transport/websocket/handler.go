package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"

	"pulserelay/internal/logger"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      logger.Logger
}

func NewHandler(hub *Hub, log logger.Logger) *Handler {
	// The metrics surface is served with a wildcard CORS policy; the
	// stream follows the same open policy.
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return &Handler{hub: hub, upgrader: upgrader, log: log}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws: upgrade failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn, h.log)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.log.Info("ws: client connected", "remote_addr", conn.RemoteAddr())
}
