package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks one backing store.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// GET /
func (h *HealthHandler) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "BioOF API is Running"})
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if len(h.checks) == 0 {
		c.String(http.StatusOK, "ok")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	stores := make(map[string]string, len(h.checks))
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			stores[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		stores[name] = "up"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "stores": stores})
}
