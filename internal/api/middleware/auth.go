package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/ports"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*ports.Claims, error)
}

// Auth validates the bearer token through verifier and injects its claims
// into the request context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(c.Request().Context(), parts[1])
			switch {
			case errors.Is(err, domain.ErrTokenRevoked):
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			case errors.Is(err, domain.ErrInvalidCredentials):
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			case err != nil:
				// The revocation store is unreachable; refuse rather than
				// admit a possibly logged-out token.
				return echo.NewHTTPError(http.StatusServiceUnavailable, "token verification unavailable").SetInternal(err)
			}

			c.Set("username", claims.Username)
			c.Set("role", claims.Role)
			c.Set("machine_id", claims.MachineID)
			c.Set("token", parts[1])

			return next(c)
		}
	}
}
