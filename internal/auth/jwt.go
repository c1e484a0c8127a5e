package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"shoppingify/internal/config"
)

// Claims carry only the user id. ID is a pointer so a token without an id
// claim can be told apart from id 0.
type Claims struct {
	ID *int `json:"id"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret    []byte
	expiresIn time.Duration
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret:    []byte(cfg.Secret),
		expiresIn: parseExpiry(cfg.ExpiresIn),
	}
}

// parseExpiry accepts Go durations ("36h") and the "<n>d", "<n>h", "<n>m"
// shorthands. Anything else means seven days.
func parseExpiry(s string) time.Duration {
	expiresIn := 7 * 24 * time.Hour

	s = strings.TrimSpace(s)
	if duration, err := time.ParseDuration(s); err == nil && duration > 0 {
		return duration
	}
	if len(s) < 2 {
		return expiresIn
	}

	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return expiresIn
	}
	switch s[len(s)-1] {
	case 'd':
		expiresIn = time.Duration(n) * 24 * time.Hour
	case 'h':
		expiresIn = time.Duration(n) * time.Hour
	case 'm':
		expiresIn = time.Duration(n) * time.Minute
	}
	return expiresIn
}

// ExpiresIn is the lifetime of issued tokens.
func (m *TokenManager) ExpiresIn() time.Duration {
	return m.expiresIn
}

func (m *TokenManager) Generate(userID int) (string, error) {
	now := time.Now()
	claims := Claims{
		ID: &userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Resolve returns the user id carried by token. Every failure (empty input,
// bad signature, expired, malformed, missing or non-integer id) yields false.
func (m *TokenManager) Resolve(token string) (int, bool) {
	if token == "" {
		return 0, false
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, false
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.ID == nil {
		return 0, false
	}
	return *claims.ID, true
}
