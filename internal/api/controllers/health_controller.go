package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"wayfarer/pkg/utils"
)

// Pinger is satisfied by anything that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	checks map[string]Pinger
}

func NewHealthController(checks map[string]Pinger) *HealthController {
	return &HealthController{checks: checks}
}

func (h *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, utils.APIResponse{
			Status:  "error",
			Code:    http.StatusServiceUnavailable,
			Message: "Degraded",
			TraceID: c.GetString("trace_id"),
			Data:    status,
		})
		return
	}
	utils.RespondSuccess(c, status, "OK")
}
