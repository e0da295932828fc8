package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/auth"
)

func (s *Server) login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	tokens, err := s.authSvc.Login(c.Request().Context(), &req)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"ip": c.RealIP()}).Info("login rejected")
		}
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, tokens)
}
