package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

type HealthHandler struct {
	users  UserRepository
	logger *zap.Logger
}

func NewHealthHandler(users UserRepository, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{users: users, logger: logger}
}

// Health reports 503 when the store does not answer a ping.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := h.users.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "Service unavailable")
		return
	}
	respondOK(c, nil)
}
