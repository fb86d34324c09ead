package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetms/fleet-auth/internal/api/middleware"
	"github.com/fleetms/fleet-auth/internal/core/domain"
)

// ctxPrincipal extracts the principal attached by the identity filter.
// Handlers behind the authorization guard always have one; the check
// fast-fails anyway so a miswired route cannot reach a nil principal.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return principal, nil
}
