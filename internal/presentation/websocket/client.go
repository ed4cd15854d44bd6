// Package websocket provides real-time communication via WebSocket.
package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client represents a WebSocket client connection.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	channels map[string]bool
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		channels: make(map[string]bool),
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("WebSocket unexpected close")
			}
			break
		}
		c.handleMessage(message)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				_, _ = w.Write([]byte{'\n'})
				_, _ = w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send sends a message to the client.
func (c *Client) Send(message []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- message:
	default:
		c.closed = true
		close(c.send)
	}
}

// Close closes the client connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}

func (c *Client) handleMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Warn().Err(err).Msg("Failed to parse WebSocket message")
		return
	}

	switch msg.Type {
	case MessageTypePing:
		c.sendPong()
	case MessageTypeSubscribe:
		c.handleSubscribe(msg)
	case MessageTypeUnsubscribe:
		c.handleUnsubscribe(msg)
	default:
		log.Debug().Str("type", string(msg.Type)).Msg("Unknown message type")
	}
}

func (c *Client) sendPong() {
	response := Message{
		Type:      MessageTypePong,
		Timestamp: time.Now().UTC(),
	}
	data, _ := json.Marshal(response)
	c.Send(data)
}

func (c *Client) handleSubscribe(msg Message) {
	if msg.Channel == "" {
		return
	}

	c.mu.Lock()
	c.channels[msg.Channel] = true
	c.mu.Unlock()

	c.hub.subscribeClient(c, msg.Channel)

	response := Message{
		Type:      MessageTypeSubscribed,
		Channel:   msg.Channel,
		Timestamp: time.Now().UTC(),
	}
	data, _ := json.Marshal(response)
	c.Send(data)
}

func (c *Client) handleUnsubscribe(msg Message) {
	if msg.Channel == "" {
		return
	}

	c.mu.Lock()
	delete(c.channels, msg.Channel)
	c.mu.Unlock()

	c.hub.unsubscribeClient(c, msg.Channel)

	response := Message{
		Type:      MessageTypeUnsubscribed,
		Channel:   msg.Channel,
		Timestamp: time.Now().UTC(),
	}
	data, _ := json.Marshal(response)
	c.Send(data)
}
