package main

import (
	"net/http"
	"time"

	"github.com/bellapacxx/ludo-backend/config"
	"github.com/bellapacxx/ludo-backend/routes"
	"github.com/bellapacxx/ludo-backend/services"
	"github.com/bellapacxx/ludo-backend/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(store *services.RoomStore, router *services.Router) *gin.Engine {
	r := gin.Default()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true, // the game client is served from anywhere
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	// Setup REST routes
	routes.SetupRoutes(r, store)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket lobby endpoint
	r.GET("/ws", services.HandleWebSocket(router))

	return r
}

func main() {
	// Load env variables
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	// Initialize in-memory room state
	store := services.NewRoomStore()
	hub := services.NewHub()
	router := services.NewRouter(store, hub)

	// Setup Gin router
	r := setupRouter(store, router)

	logger.Infof("🚀 Ludo Game Server starting on port %s", cfg.Port)
	if err := r.Run("0.0.0.0:" + cfg.Port); err != nil {
		logger.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
