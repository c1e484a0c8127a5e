package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shoppingify/internal/auth"
	"shoppingify/internal/models"
)

const (
	errInternal     = "Internal server error"
	errUserNotFound = "User does not exist or was deleted"
	errPageNotFound = "Page not found"
)

// UserRepository is the persistence collaborator the handlers work against.
// FindByID and FindByEmail return a nil user and a nil error when nothing
// matches. Create returns store.ErrEmailTaken when the email is already used.
type UserRepository interface {
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, nu models.NewUser) (*models.User, error)
	UpdateItems(ctx context.Context, id int, items models.Catalog) error
	UpdateActiveShoppingList(ctx context.Context, id int, list models.ShoppingList) error
	ArchiveActiveShoppingList(ctx context.Context, id int, history models.ShoppingHistory, next models.ShoppingList) error
	Ping(ctx context.Context) error
}

// Notifier pushes a user's new state to their open sessions.
type Notifier interface {
	NotifyUser(userID int, msgType string, data any)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": status, "error": message})
}

func respondOK(c *gin.Context, data gin.H) {
	body := gin.H{"status": http.StatusOK}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

// NotFound answers every route that is not registered.
func NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, errPageNotFound)
}

// userHandler carries what every authenticated handler needs.
type userHandler struct {
	users    UserRepository
	notifier Notifier
	logger   *zap.Logger
}

// loadUser fetches the authenticated user. It writes the error response
// itself and returns nil when the request cannot continue.
func (h *userHandler) loadUser(c *gin.Context) *models.User {
	userID, ok := auth.GetUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, auth.ErrInvalidToken)
		return nil
	}

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "load user", err, userID)
		return nil
	}
	if user == nil {
		respondError(c, http.StatusNotFound, errUserNotFound)
		return nil
	}
	return user
}

func (h *userHandler) internalError(c *gin.Context, msg string, err error, userID int) {
	h.logger.Error(msg,
		zap.Error(err),
		zap.String("route", c.FullPath()),
		zap.Int("user_id", userID),
	)
	respondError(c, http.StatusInternalServerError, errInternal)
}

func (h *userHandler) notify(userID int, msgType string, data any) {
	if h.notifier != nil {
		h.notifier.NotifyUser(userID, msgType, data)
	}
}
