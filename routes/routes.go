package routes

import (
	"github.com/bellapacxx/ludo-backend/controllers"
	"github.com/bellapacxx/ludo-backend/services"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, store *services.RoomStore) {
	// ----------------------
	// Status routes
	// ----------------------
	r.GET("/", controllers.Home)                // Liveness string
	r.GET("/status", controllers.Status(store)) // Room snapshot
}
