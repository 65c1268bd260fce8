package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lab-reservation-backend/internal/credential"
	"lab-reservation-backend/internal/parse"
	"lab-reservation-backend/internal/store"
)

type registerUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Rank     string `json:"rank" binding:"required"`
}

// ListUsers returns every account in id order.
func (h *Handler) ListUsers(c *gin.Context) {
	users := h.lab.Users()
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": out})
}

// RegisterUser creates an account with the rank's default credit and priority.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username, password and rank are required")
		return
	}
	rank, err := parse.Rank(req.Rank)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	hash, err := credential.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal"})
		return
	}
	id, err := h.lab.RegisterUser(req.Username, hash, rank)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

// RestoreCredit resets a user's credit to the default of their rank.
func (h *Handler) RestoreCredit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lab.RestoreCredit(id); err != nil {
		writeError(c, err)
		return
	}
	u, _ := h.lab.User(id)
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": toUserResponse(u)})
}

type applicationResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	DeviceID    int64  `json:"deviceId"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Reason      string `json:"reason"`
	SubmittedAt int64  `json:"submittedAt"`
}

// ListApplications returns pending applications in submission order.
func (h *Handler) ListApplications(c *gin.Context) {
	apps := h.lab.Applications()
	out := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, applicationResponse{
			ID:          a.ID,
			UserID:      a.UserID,
			DeviceID:    a.DeviceID,
			Start:       a.Start.Unix(),
			End:         a.End.Unix(),
			Reason:      a.Reason,
			SubmittedAt: a.SubmittedAt.Unix(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "applications": out})
}

// ApproveApplication reserves on the applicant's behalf. On failure the
// application stays queued.
func (h *Handler) ApproveApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lab.ApproveApplication(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RejectApplication drops an application without reserving.
func (h *Handler) RejectApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lab.RejectApplication(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type usageRecordResponse struct {
	ID             int64   `json:"id"`
	DeviceID       int64   `json:"deviceId"`
	DeviceName     string  `json:"deviceName"`
	Variant        string  `json:"variant"`
	UserID         int64   `json:"userId"`
	ReservedStart  int64   `json:"reservedStart"`
	ReservedEnd    int64   `json:"reservedEnd"`
	BorrowedAt     int64   `json:"borrowedAt"`
	ReturnedAt     int64   `json:"returnedAt"`
	DurationSecs   int64   `json:"durationSecs"`
	Late           bool    `json:"late"`
	Penalty        int     `json:"penalty"`
	HealthAfter    int     `json:"healthAfter"`
	AttributeAfter float64 `json:"attributeAfter"`
}

func queryInt64(c *gin.Context, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		badRequest(c, key+" must be a non-negative integer")
		return 0, false
	}
	return v, true
}

// GetHistory lists archived borrow sessions, newest first.
func (h *Handler) GetHistory(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "archive_disabled"})
		return
	}
	deviceID, ok := queryInt64(c, "deviceId")
	if !ok {
		return
	}
	userID, ok := queryInt64(c, "userId")
	if !ok {
		return
	}
	limit, ok := queryInt64(c, "limit")
	if !ok {
		return
	}

	records, err := h.store.ListSessions(c.Request.Context(), store.SessionFilter{
		DeviceID: deviceID,
		UserID:   userID,
		Limit:    int(limit),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal"})
		return
	}

	out := make([]usageRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, usageRecordResponse{
			ID:             r.ID,
			DeviceID:       r.DeviceID,
			DeviceName:     r.DeviceName,
			Variant:        r.Variant,
			UserID:         r.UserID,
			ReservedStart:  r.ReservedStart.Unix(),
			ReservedEnd:    r.ReservedEnd.Unix(),
			BorrowedAt:     r.BorrowedAt.Unix(),
			ReturnedAt:     r.ReturnedAt.Unix(),
			DurationSecs:   r.DurationSecs,
			Late:           r.Late,
			Penalty:        r.Penalty,
			HealthAfter:    r.HealthAfter,
			AttributeAfter: r.AttributeAfter,
		})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "history": out})
}
