package usage

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Middleware records every request into the tracker. The route template is
// used as the path so parameterized routes aggregate together.
func Middleware(tracker *Tracker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			// The error handler has not run yet, so a returned error carries
			// the status the client will see.
			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			label := ""
			if v, ok := c.Get(LabelKey).(string); ok {
				label = v
			}

			tracker.Record(&RequestMetric{
				Timestamp:  start,
				Method:     c.Request().Method,
				Path:       path,
				StatusCode: status,
				Duration:   time.Since(start),
				ClientID:   c.RealIP(),
				Label:      label,
			})
			return err
		}
	}
}
