package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HistoryHandler serves the archived shopping lists.
type HistoryHandler struct {
	userHandler
}

func NewHistoryHandler(users UserRepository, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{userHandler: userHandler{users: users, logger: logger}}
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	user := h.loadUser(c)
	if user == nil {
		return
	}
	respondOK(c, gin.H{"shoppingHistory": user.ShoppingHistory})
}
