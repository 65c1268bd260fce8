package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"lab-reservation-backend/internal/mw"
)

// RouterConfig carries the tunables the router needs.
type RouterConfig struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	Metrics         http.Handler
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.Default()

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	auth := mw.RequireSession(h.sessions)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/login", h.Login)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		user := api.Group("", auth)
		user.POST("/logout", h.Logout)
		user.GET("/me", h.Me)
		user.GET("/devices", h.ListDevices)
		user.GET("/devices/:id", h.GetDevice)
		user.POST("/reserve", h.Reserve)
		user.POST("/borrow", h.Borrow)
		user.POST("/return", h.Return)
		user.POST("/extend", h.Extend)
		user.POST("/apply", h.Apply)
		user.GET("/notifications", h.GetNotifications)

		user.GET("/subscriptions", h.GetSubscription)
		user.PUT("/subscriptions", h.PutSubscription)
		user.DELETE("/subscriptions", h.DeleteSubscription)

		admin := user.Group("/admin", h.RequireAdmin)
		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.RegisterUser)
		admin.POST("/users/:id/restore-credit", h.RestoreCredit)
		admin.POST("/devices", h.AddDevice)
		admin.DELETE("/devices/:id", h.DeleteDevice)
		admin.POST("/devices/:id/maintain", h.MaintainDevice)
		admin.GET("/applications", h.ListApplications)
		admin.POST("/applications/:id/approve", h.ApproveApplication)
		admin.POST("/applications/:id/reject", h.RejectApplication)
		admin.GET("/history", h.GetHistory)
	}

	return r
}
