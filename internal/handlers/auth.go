package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"shoppingify/internal/auth"
	"shoppingify/internal/config"
	"shoppingify/internal/models"
	"shoppingify/internal/store"
)

const (
	errEmailTaken         = "Email is already used"
	errInvalidCredentials = "Email or password incorrect"
)

type AuthHandler struct {
	users     UserRepository
	tokens    *auth.TokenManager
	validator *validator.Validate
	config    *config.Config
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthHandler(users UserRepository, tokens *auth.TokenManager, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		tokens:    tokens,
		validator: newValidator(),
		config:    cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	r := newFieldReader(c, h.validator)
	creds := readCredentials(r)
	if r.err != "" {
		respondError(c, http.StatusBadRequest, r.err)
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		h.logger.Error("register: hash password", zap.Error(err))
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	user, err := h.users.Create(c.Request.Context(), models.NewUser{
		Email:              creds.Email,
		PasswordHash:       hash,
		Items:              models.Catalog{},
		ActiveShoppingList: models.NewShoppingList(h.now()),
	})
	if errors.Is(err, store.ErrEmailTaken) {
		respondError(c, http.StatusConflict, errEmailTaken)
		return
	}
	if err != nil {
		h.logger.Error("register: create user", zap.Error(err))
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	h.issueCookie(c, user.ID)
}

func (h *AuthHandler) Login(c *gin.Context) {
	r := newFieldReader(c, h.validator)
	creds := readCredentials(r)
	if r.err != "" {
		respondError(c, http.StatusBadRequest, r.err)
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), creds.Email)
	if err != nil {
		h.logger.Error("login: find user", zap.Error(err))
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}

	// Unknown email and wrong password share one answer.
	if user == nil || !auth.CheckPasswordHash(creds.Password, user.PasswordHash) {
		respondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	h.issueCookie(c, user.ID)
}

// Logout clears the auth cookie. It needs no valid token.
func (h *AuthHandler) Logout(c *gin.Context) {
	auth.ClearAuthCookie(c, h.config.IsProduction())
	respondOK(c, nil)
}

func (h *AuthHandler) issueCookie(c *gin.Context, userID int) {
	if err := auth.SetAuthCookie(c, h.tokens, userID, h.config.IsProduction()); err != nil {
		h.logger.Error("sign auth token", zap.Error(err), zap.Int("user_id", userID))
		respondError(c, http.StatusInternalServerError, errInternal)
		return
	}
	respondOK(c, nil)
}
