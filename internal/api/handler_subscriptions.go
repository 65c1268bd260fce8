package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lab-reservation-backend/internal/model"
	"lab-reservation-backend/internal/store"
)

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

func (h *Handler) storeAvailable(c *gin.Context) bool {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "storage_disabled"})
		return false
	}
	return true
}

// PutSubscription handles the creation or replacement of the caller's
// subscription.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request"})
		return
	}
	if !h.storeAvailable(c) {
		return
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		UserID:   currentUser(c),
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}
	if err := h.store.PutSubscription(c.Request.Context(), &subscription); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal"})
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription removes one of the caller's subscriptions.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request"})
		return
	}
	if !h.storeAvailable(c) || !h.ownSubscription(c, req.Endpoint) {
		return
	}

	if err := h.store.DeleteSubscription(c.Request.Context(), req.Endpoint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ownSubscription writes a 404 unless the endpoint belongs to the caller.
func (h *Handler) ownSubscription(c *gin.Context, endpoint string) bool {
	sub, err := h.store.GetSubscription(c.Request.Context(), endpoint)
	if errors.Is(err, store.ErrNotFound) || (err == nil && sub.UserID != currentUser(c)) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not_found"})
		return false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal"})
		return false
	}
	return true
}

func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true // endpoints are matched without URL decoding
		}
	}
	return "", false
}

// GetSubscription reports whether the caller holds the given endpoint.
func (h *Handler) GetSubscription(c *gin.Context) {
	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "endpoint is required"})
		return
	}
	if !h.storeAvailable(c) || !h.ownSubscription(c, raw) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "endpoint": raw})
}
