package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetms/fleet-auth/internal/core/domain"
	"github.com/fleetms/fleet-auth/internal/core/ports"
	"github.com/fleetms/fleet-auth/internal/core/token"
)

type stubAccounts struct {
	account *domain.Account
	err     error
}

func (s *stubAccounts) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.account != nil && s.account.Username == username {
		return s.account, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (s *stubAccounts) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (s *stubAccounts) ExistsByEmail(context.Context, string) (bool, error)   { return false, nil }
func (s *stubAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	return a, nil
}

type stubCache struct {
	principal *domain.Principal
	setCalls  int
}

func (s *stubCache) Get(_ context.Context, username string) (*domain.Principal, bool, error) {
	if s.principal != nil && s.principal.Username == username {
		return s.principal, true, nil
	}
	return nil, false, nil
}

func (s *stubCache) Set(_ context.Context, p *domain.Principal) error {
	s.setCalls++
	return nil
}

// cacheOrNil avoids handing Identity a typed-nil interface value.
func cacheOrNil(c *stubCache) ports.PrincipalCache {
	if c == nil {
		return nil
	}
	return c
}

func signedToken(t *testing.T, username string) string {
	t.Helper()
	c := token.NewCodec("secret", time.Hour)
	tok, err := c.Issue(&domain.Principal{Username: username}, time.Now().UTC())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func runIdentity(t *testing.T, authHeader string, accounts *stubAccounts, cache *stubCache) (*domain.Principal, bool, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		got     *domain.Principal
		gotOK   bool
		reached bool
	)
	codec := token.NewCodec("secret", time.Hour)
	mw := Identity(codec, accounts, cacheOrNil(cache), zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		reached = true
		got, gotOK = PrincipalFrom(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !reached {
		t.Fatalf("filter must never block the request")
	}
	return got, gotOK, rec
}

func TestIdentity_ValidToken(t *testing.T) {
	accounts := &stubAccounts{account: &domain.Account{
		ID:       7,
		Username: "alice",
		Email:    "alice@x.com",
		Roles:    []string{domain.RoleUser, domain.RoleAdmin},
	}}
	cache := &stubCache{}

	p, ok, _ := runIdentity(t, "Bearer "+signedToken(t, "alice"), accounts, cache)
	if !ok {
		t.Fatalf("expected principal attached")
	}
	if p.AccountID != 7 || p.Username != "alice" {
		t.Fatalf("unexpected principal: %+v", p)
	}
	// Roles come from the store at request time, not from the token.
	if !p.HasAnyRole(domain.RoleAdmin) {
		t.Fatalf("expected store-derived roles, got %v", p.Roles)
	}
	if cache.setCalls != 1 {
		t.Fatalf("expected principal cached once, got %d", cache.setCalls)
	}
}

func TestIdentity_CacheHitSkipsStore(t *testing.T) {
	// Store errors out; the cached snapshot must still authenticate.
	accounts := &stubAccounts{err: domain.ErrStoreUnavailable}
	cache := &stubCache{principal: &domain.Principal{AccountID: 7, Username: "alice", Roles: []string{domain.RoleUser}}}

	p, ok, _ := runIdentity(t, "Bearer "+signedToken(t, "alice"), accounts, cache)
	if !ok {
		t.Fatalf("expected principal from cache")
	}
	if p.AccountID != 7 {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestIdentity_MissingHeader(t *testing.T) {
	_, ok, rec := runIdentity(t, "", &stubAccounts{}, nil)
	if ok {
		t.Fatalf("expected no principal")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("request must proceed, got %d", rec.Code)
	}
}

func TestIdentity_WrongScheme(t *testing.T) {
	// The prefix is the exact literal "Bearer "; anything else presents
	// no identity.
	for _, header := range []string{"Token abc", "bearer abc", "Bearer"} {
		if _, ok, _ := runIdentity(t, header, &stubAccounts{}, nil); ok {
			t.Fatalf("expected no principal for header %q", header)
		}
	}
}

func TestIdentity_InvalidToken(t *testing.T) {
	if _, ok, _ := runIdentity(t, "Bearer not-a-token", &stubAccounts{}, nil); ok {
		t.Fatalf("expected no principal for malformed token")
	}
}

func TestIdentity_ExpiredToken(t *testing.T) {
	c := token.NewCodec("secret", time.Nanosecond)
	tok, err := c.Issue(&domain.Principal{Username: "alice"}, time.Now().Add(-time.Hour).UTC())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	accounts := &stubAccounts{account: &domain.Account{Username: "alice"}}
	if _, ok, _ := runIdentity(t, "Bearer "+tok, accounts, nil); ok {
		t.Fatalf("expected no principal for expired token")
	}
}

func TestIdentity_StoreFailure(t *testing.T) {
	accounts := &stubAccounts{err: domain.ErrStoreUnavailable}

	_, ok, rec := runIdentity(t, "Bearer "+signedToken(t, "alice"), accounts, nil)
	if ok {
		t.Fatalf("expected no principal when store is down")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("store failure must not fail the request, got %d", rec.Code)
	}
}

func TestIdentity_UnknownSubject(t *testing.T) {
	// Token is valid but the account vanished from the store.
	if _, ok, _ := runIdentity(t, "Bearer "+signedToken(t, "ghost"), &stubAccounts{}, nil); ok {
		t.Fatalf("expected no principal for unknown subject")
	}
}
