// Package middleware contains reusable HTTP middleware.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lucaapp/account-service/internal/auth"
)

// RequireSession returns an Echo middleware that validates the
// opaque Bearer token from the Authorization header against the
// session store and injects the owning account id into the request
// context. Handlers behind it read the id via
// c.Get("account_id").(uint64).
func RequireSession(sessions *auth.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			token := strings.TrimPrefix(h, "Bearer ")

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			accountID, err := sessions.Validate(ctx, token)
			if errors.Is(err, auth.ErrUnauthorized) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}
			if err != nil {
				c.Logger().Errorf("session validation failed: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auth check failed"})
			}

			c.Set("account_id", accountID)
			return next(c)
		}
	}
}
