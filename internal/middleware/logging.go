package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger emits one structured log line per request with
// method, path, status, latency and the acting user when known.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			ev := log.Info()
			if c.Response().Status >= 500 {
				ev.Discard()
				ev = log.Error()
			}
			ev.Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("ip", c.RealIP())
			if uid := currentUserID(c); uid != "anon" {
				ev = ev.Str("user", uid)
			}
			ev.Msg("request")
			return nil
		}
	}
}
