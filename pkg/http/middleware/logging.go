package middleware

import (
	"time"

	applogger "FinSignal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs every request at debug, 5xx at error and slow
// requests at warn.
func RequestLogging(l *applogger.Logger, slow time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)
			status := c.Response().Status
			fields := []applogger.Field{
				applogger.String("method", c.Request().Method),
				applogger.String("route", routeOf(c)),
				applogger.Int("status", status),
				applogger.Duration("duration_ms", elapsed),
				applogger.String("remote", c.RealIP()),
			}
			switch {
			case status >= 500:
				l.Error("http request failed", fields...)
			case slow > 0 && elapsed >= slow:
				l.Warn("http request slow", fields...)
			default:
				l.Debug("http request", fields...)
			}
			return nil
		}
	}
}
