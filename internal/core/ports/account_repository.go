package ports

import (
	"context"

	"github.com/fleetms/fleet-auth/internal/core/domain"
)

// AccountRepository defines the persistence contract for accounts. The
// store owns the uniqueness guarantee: a Create racing past the
// existence pre-checks must still fail on a duplicate username or email.
type AccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}

// RoleRepository exposes the closed role catalogue.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}
