package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// ContextTimeoutMiddleware puts a deadline on every request context so
// storage calls made from handlers cannot block indefinitely. Expiry
// surfaces from the repositories as a storage-unavailable error.
func ContextTimeoutMiddleware(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if timeout <= 0 {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
