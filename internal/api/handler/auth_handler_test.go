package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fleetms/fleet-auth/internal/core/domain"
	"github.com/fleetms/fleet-auth/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.Principal, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.Principal, error) {
	return s.loginFn(ctx, username, password)
}

func newAuthContext(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const validSignup = `{"first_name":"Alice","last_name":"Smith","email":"alice@x.com","mobile":"5550001111","username":"alice","password":"secret1"}`

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.Account, error) {
			if in.Username != "alice" || in.Email != "alice@x.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{ID: 1, Username: in.Username, Email: in.Email, Roles: []string{domain.RoleUser}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(t, "/api/auth/register", validSignup)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if msg, ok := resp["message"].(string); !ok || msg == "" {
		t.Fatalf("expected success message, got %+v", resp)
	}
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(t, "/api/auth/register", validSignup)
	_ = handler.Register(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "username taken") {
		t.Fatalf("expected username conflict message, got %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(t, "/api/auth/register", validSignup)
	_ = handler.Register(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "email taken") {
		t.Fatalf("expected email conflict message, got %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(t, "/api/auth/register", "not-json")
	_ = handler.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	// Username below the 3-character minimum.
	body := `{"first_name":"Al","last_name":"S","email":"a@x.com","mobile":"5550001111","username":"al","password":"secret1"}`
	c, rec := newAuthContext(t, "/api/auth/register", body)
	_ = handler.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (string, *domain.Principal, error) {
			if username != "alice" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.Principal{
				AccountID: 1,
				Username:  "alice",
				Email:     "alice@x.com",
				Roles:     []string{domain.RoleUser},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(t, "/api/auth/login", `{"username":"alice","password":"secret1"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	if resp["username"] != "alice" || resp["email"] != "alice@x.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	roles, ok := resp["roles"].([]any)
	if !ok || len(roles) != 1 || roles[0] != domain.RoleUser {
		t.Fatalf("unexpected roles: %+v", resp["roles"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.Principal, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(t, "/api/auth/login", `{"username":"alice","password":"bad1234"}`)
	_ = handler.Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.Principal, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newAuthContext(t, "/api/auth/login", "{")
	_ = handler.Login(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
