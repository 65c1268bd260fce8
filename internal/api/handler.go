package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"lab-reservation-backend/internal/lab"
	"lab-reservation-backend/internal/mw"
	"lab-reservation-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	lab      *lab.Manager
	store    store.Store
	sessions *mw.Sessions
	webpush  *webpush.Options
}

// NewHandler creates a new API handler. s may be nil, in which case the
// subscription and history endpoints answer 503.
func NewHandler(m *lab.Manager, s store.Store, sessions *mw.Sessions, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		lab:      m,
		store:    s,
		sessions: sessions,
		webpush:  webpushOptions,
	}
}

// statusFor maps a lab error kind to an HTTP status.
func statusFor(kind string) int {
	switch kind {
	case "ok":
		return http.StatusOK
	case "not_found":
		return http.StatusNotFound
	case "invalid_interval":
		return http.StatusBadRequest
	case "permission_denied":
		return http.StatusForbidden
	case "device_unavailable", "conflict", "busy", "invalid_state", "already_exists":
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	kind := lab.Kind(err)
	c.JSON(statusFor(kind), gin.H{"ok": false, "error": kind})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "bad_request", "message": msg})
}

func currentUser(c *gin.Context) int64 {
	id, _ := mw.UserID(c)
	return id
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func unix(sec int64) time.Time {
	return time.Unix(sec, 0)
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

type userResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Rank        string `json:"rank"`
	CreditScore int    `json:"creditScore"`
	Priority    int    `json:"priority"`
	CanReserve  bool   `json:"canReserve"`
}

func toUserResponse(u lab.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Rank:        u.Rank.String(),
		CreditScore: u.CreditScore,
		Priority:    u.Priority,
		CanReserve:  u.CanReserve(),
	}
}

type reservationResponse struct {
	UserID     int64 `json:"userId"`
	Start      int64 `json:"start"`
	End        int64 `json:"end"`
	Borrowed   bool  `json:"borrowed"`
	BorrowedAt int64 `json:"borrowedAt,omitempty"`
}

type deviceResponse struct {
	ID            int64                 `json:"id"`
	Name          string                `json:"name"`
	Variant       string                `json:"variant"`
	Status        string                `json:"status"`
	Health        int                   `json:"health"`
	AttributeName string                `json:"attributeName"`
	Attribute     float64               `json:"attribute"`
	AllowStudent  bool                  `json:"allowStudent"`
	Reservations  []reservationResponse `json:"reservations"`
}

func toDeviceResponse(d lab.DeviceView) deviceResponse {
	rs := make([]reservationResponse, 0, len(d.Reservations))
	for _, r := range d.Reservations {
		rs = append(rs, reservationResponse{
			UserID:     r.UserID,
			Start:      r.Start.Unix(),
			End:        r.End.Unix(),
			Borrowed:   r.Borrowed,
			BorrowedAt: unixOrZero(r.BorrowedAt),
		})
	}
	return deviceResponse{
		ID:            d.ID,
		Name:          d.Name,
		Variant:       d.Variant.String(),
		Status:        d.Status.String(),
		Health:        d.Health,
		AttributeName: d.Variant.Attribute(),
		Attribute:     d.Attribute,
		AllowStudent:  d.AllowStudent,
		Reservations:  rs,
	}
}
