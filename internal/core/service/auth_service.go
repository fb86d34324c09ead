package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetms/fleet-auth/internal/core/domain"
	"github.com/fleetms/fleet-auth/internal/core/ports"
)

// AuthService implements registration and login against the credential
// store, the password hasher and the token codec.
type AuthService struct {
	accounts    ports.AccountRepository
	roles       ports.RoleRepository
	hasher      ports.PasswordHasher
	codec       ports.TokenCodec
	defaultRole string
	log         zerolog.Logger
}

func NewAuthService(accounts ports.AccountRepository, roles ports.RoleRepository, hasher ports.PasswordHasher, codec ports.TokenCodec, defaultRole string, log zerolog.Logger) *AuthService {
	if defaultRole == "" {
		defaultRole = domain.RoleUser
	}
	return &AuthService{
		accounts:    accounts,
		roles:       roles,
		hasher:      hasher,
		codec:       codec,
		defaultRole: defaultRole,
		log:         log,
	}
}

// Register creates a new account with exactly the default role attached.
// Validation order is fixed: username uniqueness before email uniqueness,
// first failure wins. A missing default role in the catalogue is a
// deployment fault and fails loudly.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, domain.ErrInvalidCredentials
	}

	taken, err := s.accounts.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	taken, err = s.accounts.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	role, err := s.roles.FindByName(ctx, s.defaultRole)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			s.log.Error().Str("role", s.defaultRole).Msg("default role missing from catalogue")
			return nil, domain.ErrRoleCatalogueMissing
		}
		return nil, fmt.Errorf("find default role: %w", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Mobile:       in.Mobile,
		Username:     in.Username,
		PasswordHash: hashed,
		RoleIDs:      []int{role.ID},
		Roles:        []string{role.Name},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The store enforces uniqueness transactionally; a conflict that
	// races past the pre-checks still surfaces here as taken.
	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Int64("account_id", created.ID).Msg("account registered")
	return created, nil
}

// Login verifies the credential pair and issues a signed token. Unknown
// username and wrong password collapse to the same error so the response
// cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.log.Warn().Str("username", username).Msg("login failed: unknown username")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.log.Warn().Str("username", username).Msg("login failed: password mismatch")
		return "", nil, domain.ErrInvalidCredentials
	}

	principal := domain.NewPrincipal(account)
	token, err := s.codec.Issue(principal, time.Now().UTC())
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, principal, nil
}
