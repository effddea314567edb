package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/exes/food-network/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !slices.Contains(allowedRoles, role) {
				if role == "" {
					return echo.NewHTTPError(http.StatusForbidden, "forbidden")
				}
				return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("role %q may not access this resource", role))
			}
			return next(c)
		}
	}
}

// MachineOnly restricts a route to kiosk device tokens.
func MachineOnly() echo.MiddlewareFunc {
	return RBAC(domain.RoleMachine)
}
