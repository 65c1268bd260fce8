package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type windowRequest struct {
	DeviceID int64 `json:"deviceId" binding:"required"`
	Start    int64 `json:"start" binding:"required"`
	End      int64 `json:"end" binding:"required"`
}

type deviceRequest struct {
	DeviceID int64 `json:"deviceId" binding:"required"`
}

type extendRequest struct {
	DeviceID int64 `json:"deviceId" binding:"required"`
	NewEnd   int64 `json:"newEnd" binding:"required"`
}

type applyRequest struct {
	DeviceID int64  `json:"deviceId" binding:"required"`
	Start    int64  `json:"start" binding:"required"`
	End      int64  `json:"end" binding:"required"`
	Reason   string `json:"reason"`
}

// Reserve books a window on a device for the caller.
func (h *Handler) Reserve(c *gin.Context) {
	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "deviceId, start and end are required")
		return
	}
	if err := h.lab.Reserve(currentUser(c), req.DeviceID, unix(req.Start), unix(req.End)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Borrow starts the caller's reservation that covers the current time.
func (h *Handler) Borrow(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "deviceId is required")
		return
	}
	if err := h.lab.Borrow(currentUser(c), req.DeviceID, h.lab.Now()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Return ends the caller's borrow and reports the resulting credit.
func (h *Handler) Return(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "deviceId is required")
		return
	}
	userID := currentUser(c)
	session, err := h.lab.Return(userID, req.DeviceID, h.lab.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	u, _ := h.lab.User(userID)
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"late":        session.Late,
		"penalty":     session.Penalty,
		"creditScore": u.CreditScore,
		"health":      session.HealthAfter,
		"attribute":   session.AttributeAfter,
	})
}

// Extend moves the end of the caller's reservation.
func (h *Handler) Extend(c *gin.Context) {
	var req extendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "deviceId and newEnd are required")
		return
	}
	userID := currentUser(c)
	if err := h.lab.Extend(userID, req.DeviceID, unix(req.NewEnd)); err != nil {
		writeError(c, err)
		return
	}
	u, _ := h.lab.User(userID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "creditScore": u.CreditScore})
}

// Apply queues a reservation request for administrative approval.
func (h *Handler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "deviceId, start and end are required")
		return
	}
	id := h.lab.Apply(currentUser(c), req.DeviceID, unix(req.Start), unix(req.End), req.Reason)
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

type notificationResponse struct {
	ID        int64  `json:"id"`
	DeviceID  int64  `json:"deviceId"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"createdAt"`
}

// GetNotifications drains the caller's outbox.
func (h *Handler) GetNotifications(c *gin.Context) {
	notes := h.lab.PopNotifications(currentUser(c))
	out := make([]notificationResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, notificationResponse{
			ID:        n.ID,
			DeviceID:  n.DeviceID,
			Message:   n.Message,
			CreatedAt: n.CreatedAt.Unix(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "notifications": out})
}
