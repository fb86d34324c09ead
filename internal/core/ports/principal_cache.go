package ports

import (
	"context"

	"github.com/fleetms/fleet-auth/internal/core/domain"
)

// PrincipalCache is a short-TTL lookaside cache consulted by the
// identity filter before the account store. A miss or any cache error
// simply falls through to the store.
type PrincipalCache interface {
	Get(ctx context.Context, username string) (*domain.Principal, bool, error)
	Set(ctx context.Context, principal *domain.Principal) error
}
