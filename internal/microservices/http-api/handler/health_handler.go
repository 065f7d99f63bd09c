package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck pings one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler serves /check-conn with the status of every dependency
type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/check-conn", h.Check)
}

// Check answers 200 when every dependency responds and 503 otherwise
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	deps := make(gin.H, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = gin.H{"status": "unhealthy", "error": err.Error()}
			continue
		}
		deps[name] = gin.H{"status": "healthy"}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{"status": overall, "dependencies": deps})
}
