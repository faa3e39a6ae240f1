package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler handles the health and info endpoints
type SystemHandler struct {
	BaseHandler
	name        string
	storeDriver string
	startTime   time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, storeDriver string) *SystemHandler {
	return &SystemHandler{
		name:        name,
		storeDriver: storeDriver,
		startTime:   time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name        string `json:"name"`
	GoVersion   string `json:"go_version"`
	StoreDriver string `json:"store_driver"`
	Uptime      string `json:"uptime"`
}

// GetSystemInfo handles GET /system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:        h.name,
		GoVersion:   runtime.Version(),
		StoreDriver: h.storeDriver,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{"status": "healthy"})
}
