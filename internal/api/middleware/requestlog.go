package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// probePaths are polled by orchestrators. Only their first success and
// every failure are logged.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header and echo context. 5xx responses log at error level and
// 4xx at warn.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var probesSeen sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set(requestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status

			if _, probe := probePaths[path]; probe && status < 400 {
				if _, seen := probesSeen.LoadOrStore(path, struct{}{}); seen {
					return err
				}
			}

			attrs := []any{
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}
			if route := c.Path(); route != "" && route != path {
				attrs = append(attrs, "route", route)
			}
			if id := c.Param("id"); id != "" {
				attrs = append(attrs, "session", id)
			}

			log.Log(c.Request().Context(), levelFor(status), "request", attrs...)
			return err
		}
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
