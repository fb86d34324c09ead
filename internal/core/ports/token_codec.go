package ports

import (
	"time"

	"github.com/fleetms/fleet-auth/internal/core/domain"
)

// TokenCodec signs and parses the self-contained bearer tokens. Both
// operations are pure functions of their inputs plus the signing secret;
// the clock is passed in explicitly so expiry is testable.
type TokenCodec interface {
	Issue(principal *domain.Principal, now time.Time) (string, error)
	Parse(token string, now time.Time) (*domain.TokenClaims, error)
}
