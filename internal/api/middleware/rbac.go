package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetms/fleet-auth/internal/api/metrics"
)

// RequireRoles is the authorization guard for a role-gated route. The
// principal is allowed when its role set intersects the required set
// (any-of, no hierarchy). Unauthenticated requests get 401; an
// authenticated principal without a matching role gets 403. A denial
// never reaches the handler.
func RequireRoles(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				metrics.AuthzDecisionsTotal.WithLabelValues("deny").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !principal.HasAnyRole(required...) {
				metrics.AuthzDecisionsTotal.WithLabelValues("deny").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			metrics.AuthzDecisionsTotal.WithLabelValues("allow").Inc()
			return next(c)
		}
	}
}
