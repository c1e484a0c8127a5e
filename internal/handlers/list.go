package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"shoppingify/internal/models"
	"shoppingify/internal/websocket"
)

const (
	errItemNotInList = "Item is not in the shopping list"
	errListEmpty     = "Shopping list is empty"
)

// ActiveListHandler serves the shopping list the user is currently working on.
type ActiveListHandler struct {
	userHandler
	validator *validator.Validate
	now       func() time.Time
}

func NewActiveListHandler(users UserRepository, notifier Notifier, logger *zap.Logger) *ActiveListHandler {
	return &ActiveListHandler{
		userHandler: userHandler{users: users, notifier: notifier, logger: logger},
		validator:   newValidator(),
		now:         time.Now,
	}
}

func (h *ActiveListHandler) GetActiveList(c *gin.Context) {
	user := h.loadUser(c)
	if user == nil {
		return
	}
	respondOK(c, gin.H{"activeShoppingList": user.ActiveShoppingList})
}

// UpdateItem sets amount and completed for a catalog item on the active list,
// adding it when needed. Items missing from the catalog are refused.
func (h *ActiveListHandler) UpdateItem(c *gin.Context) {
	r := newFieldReader(c, h.validator)
	req := models.UpdateItemRequest{
		Category:  r.text("category", "notblank", errCategoryInvalid),
		Name:      r.text("name", "notblank", errNameInvalid),
		Amount:    r.positiveInt("amount", errAmountInvalid),
		Completed: r.boolean("completed", errCompletedInvalid),
	}
	if r.err != "" {
		respondError(c, http.StatusBadRequest, r.err)
		return
	}

	user := h.loadUser(c)
	if user == nil {
		return
	}

	if !user.Items.Contains(req.Category, req.Name) {
		respondError(c, http.StatusConflict, errItemNotInCatalog)
		return
	}

	user.ActiveShoppingList.UpdateItem(req.Category, req.Name, req.Amount, req.Completed)
	h.saveActiveList(c, user)
}

func (h *ActiveListHandler) DeleteItem(c *gin.Context) {
	r := newFieldReader(c, h.validator)
	req := r.itemRequest()
	if r.err != "" {
		respondError(c, http.StatusBadRequest, r.err)
		return
	}

	user := h.loadUser(c)
	if user == nil {
		return
	}

	if !user.ActiveShoppingList.DeleteItem(req.Category, req.Name) {
		respondError(c, http.StatusNotFound, errItemNotInList)
		return
	}

	h.saveActiveList(c, user)
}

func (h *ActiveListHandler) Rename(c *gin.Context) {
	r := newFieldReader(c, h.validator)
	name := r.text("name", "notblank", errNameInvalid)
	if r.err != "" {
		respondError(c, http.StatusBadRequest, r.err)
		return
	}

	user := h.loadUser(c)
	if user == nil {
		return
	}

	user.ActiveShoppingList.Rename(name)
	h.saveActiveList(c, user)
}

// Archive moves the active list into the history as completed or cancelled
// and starts a fresh one.
func (h *ActiveListHandler) Archive(c *gin.Context) {
	r := newFieldReader(c, h.validator)
	state, ok := models.ParseListState(r.optional("state"))
	if !ok {
		respondError(c, http.StatusBadRequest, errStateInvalid)
		return
	}

	user := h.loadUser(c)
	if user == nil {
		return
	}

	if user.ActiveShoppingList.List.Len() == 0 {
		respondError(c, http.StatusConflict, errListEmpty)
		return
	}

	finished, next := user.ActiveShoppingList.Archive(state, h.now())
	history := append(user.ShoppingHistory, finished)

	if err := h.users.ArchiveActiveShoppingList(c.Request.Context(), user.ID, history, next); err != nil {
		h.internalError(c, "archive shopping list", err, user.ID)
		return
	}

	h.notify(user.ID, websocket.MessageTypeActiveListUpdate, gin.H{"activeShoppingList": next})
	h.notify(user.ID, websocket.MessageTypeHistoryUpdate, gin.H{"shoppingHistory": history})
	respondOK(c, gin.H{"shoppingHistory": history})
}

func (h *ActiveListHandler) saveActiveList(c *gin.Context, user *models.User) {
	list := user.ActiveShoppingList
	if err := h.users.UpdateActiveShoppingList(c.Request.Context(), user.ID, list); err != nil {
		h.internalError(c, "save active shopping list", err, user.ID)
		return
	}
	h.notify(user.ID, websocket.MessageTypeActiveListUpdate, gin.H{"activeShoppingList": list})
	respondOK(c, nil)
}
