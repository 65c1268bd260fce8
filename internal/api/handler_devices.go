package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lab-reservation-backend/internal/parse"
)

// ListDevices returns every device with its status derived at request time.
func (h *Handler) ListDevices(c *gin.Context) {
	views := h.lab.Devices(h.lab.Now())
	out := make([]deviceResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toDeviceResponse(v))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "devices": out})
}

// GetDevice returns a single device.
func (h *Handler) GetDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, found := h.lab.Device(id, h.lab.Now())
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "device": toDeviceResponse(v)})
}

type addDeviceRequest struct {
	Name         string `json:"name" binding:"required"`
	Variant      string `json:"variant" binding:"required"`
	AllowStudent bool   `json:"allowStudent"`
}

// AddDevice registers a new device with baseline wear state.
func (h *Handler) AddDevice(c *gin.Context) {
	var req addDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and variant are required")
		return
	}
	variant, err := parse.Variant(req.Variant)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	id := h.lab.AddDevice(variant, req.Name, req.AllowStudent)
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

// DeleteDevice removes a device that is not in use.
func (h *Handler) DeleteDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lab.DeleteDevice(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MaintainDevice restores a device that is not in use to baseline.
func (h *Handler) MaintainDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lab.MaintainDevice(id); err != nil {
		writeError(c, err)
		return
	}
	v, _ := h.lab.Device(id, h.lab.Now())
	c.JSON(http.StatusOK, gin.H{"ok": true, "device": toDeviceResponse(v)})
}
