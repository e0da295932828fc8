package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/catalog"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listBookLists(c echo.Context) error {
	page, err := helpers.QueryInt(c, "page", 1)
	if err != nil {
		return err
	}
	pageSize, err := helpers.QueryInt(c, "pageSize", 0)
	if err != nil {
		return err
	}
	lists, err := s.bookLists.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, lists)
}

func (s *Server) getBookList(c echo.Context) error {
	bl, err := s.bookLists.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, bl)
}

func (s *Server) createBookList(c echo.Context) error {
	owner, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	var req catalog.CreateBookListRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	bl, err := s.bookLists.Create(c.Request().Context(), owner, &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, bl)
}

func (s *Server) likeBookList(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	bl, err := s.bookLists.ToggleLike(c.Request().Context(), c.Param("id"), userID.String())
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, bl)
}

func (s *Server) deleteBookList(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	if err := s.bookLists.Delete(c.Request().Context(), c.Param("id"), userID.String(), helpers.IsStaff(c)); err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
