package mw

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const userIDKey = "userID"

// Sessions maps opaque bearer tokens to user ids. A token expires after ttl
// without use.
type Sessions struct {
	tokens *cache.Cache
	ttl    time.Duration
}

// NewSessions creates an empty session table.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		tokens: cache.New(ttl, ttl/2+time.Minute),
		ttl:    ttl,
	}
}

// Create issues a fresh token for the user.
func (s *Sessions) Create(userID int64) string {
	token := uuid.NewString()
	s.tokens.Set(token, userID, s.ttl)
	return token
}

// Lookup resolves a token and extends its lifetime.
func (s *Sessions) Lookup(token string) (int64, bool) {
	v, ok := s.tokens.Get(token)
	if !ok {
		return 0, false
	}
	userID := v.(int64)
	s.tokens.Set(token, userID, s.ttl)
	return userID, true
}

// Revoke discards a token.
func (s *Sessions) Revoke(token string) {
	s.tokens.Delete(token)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// RequireSession rejects requests without a live session token and stores
// the caller's id in the gin context.
func RequireSession(s *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthenticated"})
			return
		}
		userID, ok := s.Lookup(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthenticated"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by RequireSession.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
