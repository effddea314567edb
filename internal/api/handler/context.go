package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/ports"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - machine role requires a non-empty machine_id; without it the device
//     token cannot be tied to a kiosk, so reject with 401.
func ctxClaims(c echo.Context) (ports.Claims, error) {
	var cl ports.Claims
	cl.Role, _ = c.Get("role").(string)
	if cl.Role == "" {
		return cl, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	cl.Username, _ = c.Get("username").(string)
	cl.MachineID, _ = c.Get("machine_id").(string)
	if cl.Role == domain.RoleMachine && cl.MachineID == "" {
		return cl, echo.NewHTTPError(http.StatusUnauthorized, "token missing machine identity")
	}

	return cl, nil
}

// machineClaims is ctxClaims restricted to device tokens.
func machineClaims(c echo.Context) (string, error) {
	cl, err := ctxClaims(c)
	if err != nil {
		return "", err
	}
	if cl.Role != domain.RoleMachine {
		return "", echo.NewHTTPError(http.StatusForbidden, "machine token required")
	}
	return cl.MachineID, nil
}
