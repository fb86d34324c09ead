package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetms/fleet-auth/internal/core/domain"
	"github.com/fleetms/fleet-auth/internal/core/ports"
)

// AccountHandler serves profile lookups for the authenticated caller.
type AccountHandler struct {
	accounts ports.AccountRepository
}

func NewAccountHandler(accounts ports.AccountRepository) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type accountResponse struct {
	ID        int64    `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Mobile    string   `json:"mobile"`
	Username  string   `json:"username"`
	Roles     []string `json:"roles"`
}

// Me returns the profile of the account behind the attached principal.
//
// @Summary      Current account profile
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/account/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.FindByUsername(c.Request().Context(), principal.Username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "account not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, accountResponse{
		ID:        account.ID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		Mobile:    account.Mobile,
		Username:  account.Username,
		Roles:     account.Roles,
	})
}
