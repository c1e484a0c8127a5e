package api

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shoppingify/internal/auth"
	"shoppingify/internal/config"
	"shoppingify/internal/handlers"
	"shoppingify/internal/logging"
	"shoppingify/internal/websocket"
)

func SetupRouter(cfg *config.Config, users handlers.UserRepository, hub *websocket.Hub, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(logging.Middleware(logger), gin.Recovery())
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	tokens := auth.NewTokenManager(cfg.JWT)

	authHandler := handlers.NewAuthHandler(users, tokens, cfg, logger)
	itemHandler := handlers.NewItemHandler(users, hub, logger)
	listHandler := handlers.NewActiveListHandler(users, hub, logger)
	historyHandler := handlers.NewHistoryHandler(users, logger)
	healthHandler := handlers.NewHealthHandler(users, logger)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Public routes
	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		account := api.Group("/users")
		{
			account.POST("/register", authHandler.Register)
			account.POST("/login", authHandler.Login)
			account.POST("/logout", authHandler.Logout)
		}
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(tokens))
	{
		items := protected.Group("/items")
		{
			items.GET("", itemHandler.GetItems)
			items.POST("/add", itemHandler.AddItem)
			items.POST("/delete", itemHandler.DeleteItem)
		}

		list := protected.Group("/active-shopping-list")
		{
			list.GET("", listHandler.GetActiveList)
			list.POST("/update", listHandler.UpdateItem)
			list.POST("/delete", listHandler.DeleteItem)
			list.POST("/name", listHandler.Rename)
			list.POST("/archive", listHandler.Archive)
		}

		protected.GET("/shopping-history", historyHandler.GetHistory)
		protected.GET("/ws", wsHandler.HandleWebSocket)
	}

	router.NoRoute(handlers.NotFound)

	return router
}

// corsMiddleware echoes allowed origins back with credentials enabled so the
// browser sends the auth cookie.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if slices.Contains(allowedOrigins, origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Length, Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
