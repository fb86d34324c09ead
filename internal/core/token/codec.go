// Package token implements the stateless bearer token codec. Tokens are
// HS256-signed JWTs carrying only {sub, iat, exp}; roles are never
// embedded and are re-derived from the store on each request.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fleetms/fleet-auth/internal/core/domain"
)

// Codec signs and parses tokens with a single symmetric secret held for
// the process lifetime. Issue and Parse are pure given their inputs, so
// the codec is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the principal with issued-at=now and
// expires-at=now+TTL. Subject is the username; nothing else from the
// principal enters the claims.
func (c *Codec) Issue(p *domain.Principal, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   p.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse verifies signature and expiry and returns the embedded claims.
// Failures are classified as ErrTokenMalformed, ErrTokenSignatureInvalid
// or ErrTokenExpired. Expiry is strict: a token is already invalid at
// exactly issued-at+TTL.
func (c *Codec) Parse(raw string, now time.Time) (*domain.TokenClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classify(err)
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenMalformed
	}

	out := &domain.TokenClaims{
		Username:  claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// classify maps jwt/v5 parse errors onto the domain taxonomy. Order
// matters: an expired token with a valid signature must surface as
// expired, not as a generic failure.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignatureInvalid
	default:
		return domain.ErrTokenMalformed
	}
}
