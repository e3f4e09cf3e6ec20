package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	jwtpkg "github.com/fleetops/fleetd/internal/pkg/jwt"
	"github.com/fleetops/fleetd/internal/pkg/models"
	"github.com/fleetops/fleetd/internal/utils"
)

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			tokenString := parts[1]

			claims, err := jwtpkg.ValidateToken(tokenString, config.Secret)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			userID, ok := claims["user_id"]
			if !ok {
				return utils.UnauthorizedResponse(c, "Invalid token: missing user_id claim")
			}

			role, ok := claims["role"]
			if !ok {
				return utils.UnauthorizedResponse(c, "Invalid token: missing role claim")
			}

			c.Set("user_id", fmt.Sprintf("%v", userID))
			c.Set("user_role", fmt.Sprintf("%v", role))

			return next(c)
		}
	}
}

// AdminOnlyMiddleware restricts a route group to users with the ADMIN role.
// It must be registered after JWTAuthMiddleware.
func AdminOnlyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("user_role").(string)
			if !ok || role != string(models.RoleAdmin) {
				return utils.ForbiddenResponse(c, "Admin access required")
			}
			return next(c)
		}
	}
}
