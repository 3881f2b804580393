package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/ludo-backend/services"
)

// Home returns the liveness string the game client pings on startup.
func Home(c *gin.Context) {
	c.String(http.StatusOK, "Ludo Game Server is running!")
}

// Status reports the current room population. Read-only: it serves a
// snapshot exported by the store and never mutates state.
func Status(store *services.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms := store.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":      "online",
			"activeRooms": len(rooms),
			"rooms":       rooms,
		})
	}
}
