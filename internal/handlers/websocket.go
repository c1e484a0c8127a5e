package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoppingify/internal/auth"
	"shoppingify/internal/websocket"
)

type WebSocketHandler struct {
	hub *websocket.Hub
}

func NewWebSocketHandler(hub *websocket.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket upgrades the connection and subscribes it to the
// authenticated user's updates.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, auth.ErrInvalidToken)
		return
	}

	h.hub.ServeWS(c, userID)
}
