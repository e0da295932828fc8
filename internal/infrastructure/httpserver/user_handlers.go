package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/httpserver/helpers"
)

func (s *Server) register(c echo.Context) error {
	var req user.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	created, err := s.userService.Register(c.Request().Context(), &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, created)
}

// currentUser returns the user set by the JWT middleware.
func (s *Server) currentUser(c echo.Context) error {
	u, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}
