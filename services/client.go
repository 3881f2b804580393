package services

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/bellapacxx/ludo-backend/utils/logger"
)

// Client is one WebSocket session. Inbound frames are handled in
// arrival order by the single readPump goroutine; outbound payloads go
// through the buffered send channel drained by writePump.
type Client struct {
	id     string
	conn   *websocket.Conn
	router *Router
	send   chan []byte
	mu     sync.Mutex
	closed bool
	once   sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// trySend queues a payload unless the client is closed or its buffer is
// full. The mutex pairs the closed check with the channel send, so a
// broadcast racing Close can never hit a closed channel.
func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer func() {
		c.router.HandleDisconnect(c)
		if c.conn != nil {
			c.conn.Close()
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Infof("[Client %s] disconnected normally", c.id)
			} else {
				logger.Infof("[Client %s] read error: %v", c.id, err)
			}
			return
		}

		func(msg []byte) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("[Client %s] recovered from panic: %v", c.id, r)
				}
			}()
			c.router.HandleMessage(c, msg)
		}(message)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Infof("[Client %s] write error: %v", c.id, err)
			return
		}
	}
}
