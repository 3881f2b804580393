package services

import (
	"sync"

	"github.com/bellapacxx/ludo-backend/models"
	"github.com/bellapacxx/ludo-backend/utils/logger"
)

// Hub tracks live clients by connection ID and provides the send
// primitives the event router broadcasts through: send-to-one,
// send-to-room and send-to-room-minus-sender. Sends are fire-and-forget
// through each client's buffered channel; a full buffer drops the
// message rather than blocking the sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	if old, ok := h.clients[c.id]; ok {
		old.Close() // safe closure
	}
	h.clients[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()
	c.Close()
}

// sendTo delivers a payload to a single connection. Nil payloads
// (failed event encoding) are never queued.
func (h *Hub) sendTo(connID string, payload []byte) {
	if payload == nil {
		return
	}

	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if !client.trySend(payload) {
		logger.Debugf("[Hub] dropping message to %s", connID)
	}
}

// sendToRoom delivers a payload to every member of the room snapshot,
// excluding the connection named by exclude ("" means everyone).
func (h *Hub) sendToRoom(room *models.Room, exclude string, payload []byte) {
	if room == nil {
		return
	}
	for _, p := range room.Players {
		if p.ID == exclude {
			continue
		}
		h.sendTo(p.ID, payload)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
