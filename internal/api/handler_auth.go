package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lab-reservation-backend/internal/lab"
	"lab-reservation-backend/internal/mw"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	id, ok := h.lab.Authenticate(req.Username, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid_credentials"})
		return
	}
	u, _ := h.lab.User(id)
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": h.sessions.Create(id), "user": toUserResponse(u)})
}

// Logout revokes the caller's token.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Revoke(mw.BearerToken(c))
	c.Status(http.StatusNoContent)
}

// Me returns the caller's account snapshot.
func (h *Handler) Me(c *gin.Context) {
	u, ok := h.lab.User(currentUser(c))
	if !ok {
		writeError(c, lab.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": toUserResponse(u)})
}

// RequireAdmin aborts with 403 unless the caller has the admin rank. It must
// run after mw.RequireSession.
func (h *Handler) RequireAdmin(c *gin.Context) {
	u, ok := h.lab.User(currentUser(c))
	if !ok || u.Rank != lab.Admin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "permission_denied"})
		return
	}
	c.Next()
}
