package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TestHandler serves the role-gated demo resources. The handlers carry
// no authorization logic themselves; the guard runs before dispatch.
type TestHandler struct{}

func NewTestHandler() *TestHandler {
	return &TestHandler{}
}

// All is reachable without any identity.
//
// @Summary      Public content
// @Tags         test
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/test/all [get]
func (h *TestHandler) All(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "public content"})
}

// User requires the USER role.
//
// @Summary      User content
// @Tags         test
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/test/user [get]
func (h *TestHandler) User(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "user content"})
}

// Admin requires the ADMIN role.
//
// @Summary      Admin content
// @Tags         test
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/test/admin [get]
func (h *TestHandler) Admin(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "admin content"})
}
