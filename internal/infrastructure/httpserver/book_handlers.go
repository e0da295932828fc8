package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/catalog"
)

func (s *Server) getBook(c echo.Context) error {
	book, err := s.books.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (s *Server) bindBook(c echo.Context) (*catalog.BookRequest, error) {
	var req catalog.BookRequest
	if err := c.Bind(&req); err != nil {
		return nil, badRequestBody()
	}
	if err := c.Validate(&req); err != nil {
		return nil, validationError(err)
	}
	return &req, nil
}

func (s *Server) createBook(c echo.Context) error {
	req, err := s.bindBook(c)
	if err != nil {
		return err
	}
	book, err := s.books.Create(c.Request().Context(), req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (s *Server) updateBook(c echo.Context) error {
	req, err := s.bindBook(c)
	if err != nil {
		return err
	}
	book, err := s.books.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (s *Server) deleteBook(c echo.Context) error {
	if err := s.books.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
