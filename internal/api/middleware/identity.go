package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetms/fleet-auth/internal/api/metrics"
	"github.com/fleetms/fleet-auth/internal/core/domain"
	"github.com/fleetms/fleet-auth/internal/core/ports"
)

// principalKey is the request-scoped context key the identity filter
// stores the resolved principal under.
const principalKey = "auth.principal"

// bearerPrefix is the exact scheme literal; any other prefix means no
// identity is presented.
const bearerPrefix = "Bearer "

// PrincipalFrom returns the principal attached by Identity, if any.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	return p, ok && p != nil
}

// Identity is the per-request identity filter. It extracts the bearer
// token, validates it, re-derives the caller's current roles by looking
// the account up by the token subject (cache first, then store), and
// attaches the resulting principal to the request context.
//
// The filter never rejects a request: a missing header, an invalid
// token, or a store failure all leave the request unauthenticated and
// let the authorization guard decide. cache may be nil.
func Identity(codec ports.TokenCodec, accounts ports.AccountRepository, cache ports.PrincipalCache, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return next(c)
			}

			claims, err := codec.Parse(raw, time.Now().UTC())
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues(tokenResult(err)).Inc()
				log.Debug().Err(err).Msg("bearer token rejected")
				return next(c)
			}
			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()

			principal, err := resolvePrincipal(c.Request().Context(), claims.Username, accounts, cache)
			if err != nil {
				log.Warn().Err(err).Str("username", claims.Username).Msg("identity lookup failed, proceeding unauthenticated")
				return next(c)
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// bearerToken returns the token following the "Bearer " scheme literal.
func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// resolvePrincipal re-derives the caller's current role set. Roles are
// deliberately not embedded in the token, so a role change takes effect
// on the next request rather than the next login. Cache errors are
// swallowed: the store remains the source of truth.
func resolvePrincipal(ctx context.Context, username string, accounts ports.AccountRepository, cache ports.PrincipalCache) (*domain.Principal, error) {
	if cache != nil {
		if p, hit, err := cache.Get(ctx, username); err == nil && hit {
			metrics.PrincipalCacheTotal.WithLabelValues("hit").Inc()
			return p, nil
		}
		metrics.PrincipalCacheTotal.WithLabelValues("miss").Inc()
	}

	account, err := accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	principal := domain.NewPrincipal(account)
	if cache != nil {
		_ = cache.Set(ctx, principal)
	}
	return principal, nil
}

func tokenResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "signature_invalid"
	default:
		return "malformed"
	}
}
