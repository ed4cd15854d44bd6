package websocket

import (
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

// Handler handles WebSocket connections.
type Handler struct {
	hub *Hub
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
	}
}

// Upgrade is middleware that checks if the request is a WebSocket upgrade request.
func (h *Handler) Upgrade(c *fiber.Ctx) error {
	if fiberws.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handle handles WebSocket connections. There is no per-connection
// authentication in this system; clients subscribe to channels (issue
// IDs, alert groups) after connecting to scope what they receive.
func (h *Handler) Handle(c *fiberws.Conn) {
	client := NewClient(h.hub, c.Conn)
	h.hub.Register(client)

	log.Debug().Msg("New WebSocket connection")

	go client.WritePump()
	client.ReadPump()
}

// GetHub returns the hub instance.
func (h *Handler) GetHub() *Hub {
	return h.hub
}
