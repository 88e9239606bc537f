package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/device-grader/internal/metrics"
)

// Recovery returns Echo middleware that recovers from panics, logs the stack
// trace with the request ID, and returns a 500 carrying that ID so the
// failure can be found in the logs.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				reqID, _ := c.Get(requestIDKey).(string)

				metrics.HTTPPanicsTotal.Inc()
				log.Error("panic recovered",
					"error", fmt.Sprint(r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"request_id", reqID,
					"stack", string(buf[:n]),
				)

				body := map[string]string{"error": "internal server error"}
				if reqID != "" {
					body["request_id"] = reqID
				}
				err = c.JSON(http.StatusInternalServerError, body)
			}()
			return next(c)
		}
	}
}
