package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CookieName = "auth-token"

	userIDKey = "user_id"

	ErrInvalidToken = "Auth token is not valid"
)

// JWTMiddleware rejects requests whose auth cookie does not resolve to a user
// id. Missing and invalid cookies get the same response.
func JWTMiddleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(CookieName)

		userID, ok := tokens.Resolve(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": http.StatusUnauthorized,
				"error":  ErrInvalidToken,
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID returns the id stored by JWTMiddleware.
func GetUserID(c *gin.Context) (int, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// SetAuthCookie issues the auth cookie for userID.
func SetAuthCookie(c *gin.Context, tokens *TokenManager, userID int, secure bool) error {
	token, err := tokens.Generate(userID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(tokens.ExpiresIn().Seconds()), "/", "", secure, true)
	return nil
}

func ClearAuthCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
