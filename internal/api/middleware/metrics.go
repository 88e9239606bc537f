// Package middleware provides Echo middleware for device-grader.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/device-grader/internal/metrics"
)

// unmatchedRoute labels requests that matched no registered route, so
// scanners probing random URLs cannot grow the label set.
const unmatchedRoute = "unmatched"

// metricsSkipPaths defines URL paths excluded from HTTP request metrics.
var metricsSkipPaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

// healthGauges maps probe paths to their up/down gauge.
var healthGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that records request duration and status
// labelled by route template. Probe and scrape paths only update their
// up/down gauges.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}

			if _, skip := metricsSkipPaths[route]; skip {
				err := next(c)
				updateHealthGauge(route, c.Response().Status)
				return err
			}

			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, route, status).
				Observe(duration)
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, route, status).
				Inc()

			return err
		}
	}
}

func updateHealthGauge(path string, status int) {
	gauge, ok := healthGauges[path]
	if !ok {
		return
	}

	if status >= 200 && status < 300 {
		gauge.Set(1)
	} else {
		gauge.Set(0)
	}
}
