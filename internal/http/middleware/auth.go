// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RequireAuth, which gates routes behind a bearer token.
// The verified identity (the user's e-mail) is stored in the Gin context under
// "userID" and read back with UserID; nothing is kept between requests.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// TokenVerifier resolves a raw bearer token to the identity it was issued for.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>"
// header with a 401 JSON error. On success the identity is stored under
// "userID". It is not added to the request-scoped logger.
func RequireAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}
		id, err := v.Verify(raw)
		if err != nil {
			LoggerFrom(c).Debug().Err(err).Msg("bearer token rejected")
			unauthorized(c)
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// UserID returns the identity set by RequireAuth, or "" when absent.
func UserID(c *gin.Context) string {
	v, _ := c.Get(userIDKey)
	return asString(v)
}

func bearerToken(h string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Bearer realm="feedback-dashboard"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    "authentication required",
	})
}
