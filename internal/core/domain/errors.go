package domain

import (
	"errors"
	"time"
)

// Authentication and registration errors. ErrInvalidCredentials covers
// both unknown-username and wrong-password so callers cannot enumerate
// usernames from the error surface.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountNotFound      = errors.New("account not found")
	ErrUsernameTaken        = errors.New("username taken")
	ErrEmailTaken           = errors.New("email taken")
	ErrRoleNotFound         = errors.New("role not found")
	ErrRoleCatalogueMissing = errors.New("default role missing from role catalogue")
)

// Token validation errors. All three collapse to "no identity" for
// authorization purposes; the distinct kinds exist for logging and
// metrics.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// ErrStoreUnavailable marks failures reaching the credential store. The
// identity filter downgrades it to an unauthenticated request rather
// than failing the pipeline.
var ErrStoreUnavailable = errors.New("credential store unavailable")

// TokenClaims are the fields carried inside a signed token. Roles are
// deliberately absent: they are re-derived from the store per request.
type TokenClaims struct {
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
