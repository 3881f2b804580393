package services

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bellapacxx/ludo-backend/utils/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the request and attaches the new connection
// to the event router. Each connection gets an opaque UUID handle; that
// handle is the only identity the server knows.
func HandleWebSocket(router *Router) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("[WS] upgrade error: %v", err)
			return
		}

		client := &Client{
			id:     uuid.NewString(),
			conn:   conn,
			router: router,
			send:   make(chan []byte, 32),
		}
		logger.Infof("[WS] new client connected: %s", client.id)

		router.hub.register(client)
		go client.writePump()
		go client.readPump()
	}
}
