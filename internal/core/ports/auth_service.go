package ports

import (
	"context"

	"github.com/fleetms/fleet-auth/internal/core/domain"
)

// RegisterInput carries the signup fields. Shape validation (lengths,
// email syntax) happens at the transport layer; the service validates
// uniqueness and role catalogue consistency.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Username  string
	Password  string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (string, *domain.Principal, error)
}
