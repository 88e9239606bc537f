// Package handlers implements HTTP handlers for the device-grader API.
package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/device-grader/internal/store"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type readinessCheck struct {
	name string
	p    Pinger
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	checks []readinessCheck
}

// HealthOption configures the HealthHandler.
type HealthOption func(*HealthHandler)

// WithReadinessCheck adds a dependency to the readiness probe. Checks run
// after the database in the order they were added.
func WithReadinessCheck(name string, p Pinger) HealthOption {
	return func(h *HealthHandler) {
		h.checks = append(h.checks, readinessCheck{name: name, p: p})
	}
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s store.Store, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		checks: []readinessCheck{{name: "database", p: s}},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Healthz returns 200 if the process is running.
//
// @Summary Liveness check
// @Description Returns 200 if the process is running.
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if the database and every extra dependency are
// reachable, 503 otherwise.
//
// @Summary Readiness check
// @Description Returns 200 if all dependencies are reachable, 503 otherwise.
// @Tags health
// @Produce json
// @Success 200 {object} ReadinessResponse
// @Failure 503 {object} ReadinessResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	ctx := c.Request().Context()
	for _, chk := range h.checks {
		if err := chk.p.Ping(ctx); err != nil {
			return c.JSON(
				http.StatusServiceUnavailable,
				ReadinessResponse{Status: "unavailable", Component: chk.name},
			)
		}
	}
	return c.JSON(http.StatusOK, ReadinessResponse{Status: "ready"})
}
