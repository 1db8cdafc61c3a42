package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/taskboard/internal/logger"
	"github.com/locvowork/taskboard/internal/service/serviceutils"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// HealthzHandler handles GET /healthz
func (h *HealthHandler) HealthzHandler(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.WarnLog(ctx, "health check %s failed: %v", name, err)
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, serviceutils.GenericResponse{Success: false, Message: "unhealthy", Data: status})
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", status)
}
