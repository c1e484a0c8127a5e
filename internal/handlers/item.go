package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"shoppingify/internal/models"
	"shoppingify/internal/websocket"
)

const (
	errItemExists       = "Item already exists"
	errItemNotInCatalog = "Item is not in the items list"
)

// ItemHandler serves the user's catalog.
type ItemHandler struct {
	userHandler
	validator *validator.Validate
}

func NewItemHandler(users UserRepository, notifier Notifier, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		userHandler: userHandler{users: users, notifier: notifier, logger: logger},
		validator:   newValidator(),
	}
}

func (h *ItemHandler) GetItems(c *gin.Context) {
	user := h.loadUser(c)
	if user == nil {
		return
	}
	respondOK(c, gin.H{"items": user.Items})
}

func (h *ItemHandler) AddItem(c *gin.Context) {
	r := newFieldReader(c, h.validator)
	req := models.AddItemRequest{
		Category: r.text("category", "notblank", errCategoryInvalid),
		Name:     r.text("name", "notblank", errNameInvalid),
		Note:     r.optional("note"),
		Image:    r.optional("image"),
	}
	if r.err != "" {
		respondError(c, http.StatusBadRequest, r.err)
		return
	}

	user := h.loadUser(c)
	if user == nil {
		return
	}

	item := models.NewCatalogItem(req.Name, req.Note, req.Image)
	if !user.Items.Insert(req.Category, item) {
		respondError(c, http.StatusConflict, errItemExists)
		return
	}

	h.saveItems(c, user)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
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

	if !user.Items.Delete(req.Category, req.Name) {
		respondError(c, http.StatusNotFound, errItemNotInCatalog)
		return
	}

	h.saveItems(c, user)
}

func (h *ItemHandler) saveItems(c *gin.Context, user *models.User) {
	if err := h.users.UpdateItems(c.Request.Context(), user.ID, user.Items); err != nil {
		h.internalError(c, "save items", err, user.ID)
		return
	}
	h.notify(user.ID, websocket.MessageTypeItemsUpdate, gin.H{"items": user.Items})
	respondOK(c, nil)
}
