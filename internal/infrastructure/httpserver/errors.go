package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/AnLuoRidge/Lovely-AIP/internal/application/services"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/AnLuoRidge/Lovely-AIP/internal/utils"
)

func errorBody(code int, key, msg string) *echo.HTTPError {
	return echo.NewHTTPError(code, map[string]string{key: msg})
}

func badRequestBody() *echo.HTTPError {
	return errorBody(http.StatusBadRequest, "body", "invalid request body")
}

// validationError turns ozzo field errors into a {"field": "message"} body.
func validationError(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, err)
}

// serviceError maps service errors to the JSON error bodies the API exposes.
func (s *Server) serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		return errorBody(http.StatusNotFound, "categorynotfound", "No categories found")
	case errors.Is(err, services.ErrCategoryExists):
		return errorBody(http.StatusNotFound, "categoryexist", "Category name has existed")
	case errors.Is(err, services.ErrInvalidSubCategory):
		return errorBody(http.StatusBadRequest, "subcategory", "A category cannot be its own sub-category")
	case errors.Is(err, services.ErrBookNotFound):
		return errorBody(http.StatusNotFound, "booknotfound", "No book found")
	case errors.Is(err, services.ErrBookListNotFound):
		return errorBody(http.StatusNotFound, "booklistnotfound", "No booklist found")
	case errors.Is(err, services.ErrForbidden):
		return errorBody(http.StatusUnauthorized, "unauthorized", "Cannot modify the booklist")
	case errors.Is(err, services.ErrEmailTaken):
		return errorBody(http.StatusBadRequest, "email", "Email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		return errorBody(http.StatusUnauthorized, "unauthorized", "Email or password incorrect")
	case errors.Is(err, utils.ErrPasswordTooShort), errors.Is(err, utils.ErrPasswordTooLong),
		errors.Is(err, utils.ErrPasswordNoLetter), errors.Is(err, utils.ErrPasswordNoDigit):
		return errorBody(http.StatusBadRequest, "password", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		return errorBody(http.StatusNotFound, "notfound", "Resource not found")
	case errors.Is(err, ports.ErrDuplicate):
		return errorBody(http.StatusConflict, "conflict", "Resource already exists")
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"route":  c.Path(),
		}).WithError(err).Error("request failed")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
