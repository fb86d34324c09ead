package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetms/fleet-auth/internal/api/metrics"
	"github.com/fleetms/fleet-auth/internal/core/domain"
	"github.com/fleetms/fleet-auth/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Field bounds mirror the account constraints: names and mobile are
// short fixed-width fields, usernames 3-20, passwords 6-40 cleartext
// (the stored hash is longer).
type registerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=10"`
	LastName  string `json:"last_name"  validate:"required,max=10"`
	Email     string `json:"email"      validate:"required,email,max=50"`
	Mobile    string `json:"mobile"     validate:"required,max=10"`
	Username  string `json:"username"   validate:"required,min=3,max=20"`
	Password  string `json:"password"   validate:"required,min=6,max=40"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// loginResponse carries the signed token plus the principal snapshot it
// was minted from.
type loginResponse struct {
	Token     string   `json:"token"`
	AccountID int64    `json:"account_id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new account with the default USER role.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Signup fields"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Mobile:    req.Mobile,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			metrics.RegistrationsTotal.WithLabelValues("username_taken").Inc()
			return c.JSON(http.StatusConflict, map[string]string{"error": "username taken"})
		case errors.Is(err, domain.ErrEmailTaken):
			metrics.RegistrationsTotal.WithLabelValues("email_taken").Inc()
			return c.JSON(http.StatusConflict, map[string]string{"error": "email taken"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: "account registered successfully"})
}

// Login authenticates a credential pair and returns a signed token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, principal, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		AccountID: principal.AccountID,
		Username:  principal.Username,
		Email:     principal.Email,
		Roles:     principal.Roles,
	})
}
