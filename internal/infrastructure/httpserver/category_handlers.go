package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/catalog"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listCategories(c echo.Context) error {
	categories, err := s.categories.ListParents(c.Request().Context())
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (s *Server) listCategoriesWithBooks(c echo.Context) error {
	categories, err := s.categories.ListWithBooks(c.Request().Context())
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// bookPage reads page, pageSize, publish and price from the query string.
func bookPage(c echo.Context) (catalog.BookPage, error) {
	var p catalog.BookPage
	var err error
	if p.Page, err = helpers.QueryInt(c, "page", 1); err != nil {
		return p, err
	}
	if p.PageSize, err = helpers.QueryInt(c, "pageSize", 0); err != nil {
		return p, err
	}
	publish, err := helpers.QueryInt(c, "publish", 0)
	if err != nil {
		return p, err
	}
	price, err := helpers.QueryInt(c, "price", 0)
	if err != nil {
		return p, err
	}
	p.PublishSort, p.PriceSort = int(publish), int(price)
	return p, nil
}

func (s *Server) getCategory(c echo.Context) error {
	page, err := bookPage(c)
	if err != nil {
		return err
	}
	detail, err := s.categories.GetByID(c.Request().Context(), c.Param("id"), page)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (s *Server) getCategoryBySlug(c echo.Context) error {
	page, err := bookPage(c)
	if err != nil {
		return err
	}
	detail, err := s.categories.GetBySlug(c.Request().Context(), c.Param("slug"), page)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (s *Server) createCategory(c echo.Context) error {
	var req catalog.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	category, err := s.categories.Create(c.Request().Context(), &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (s *Server) addSubCategory(c echo.Context) error {
	var req catalog.AddSubCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	category, err := s.categories.AddSubCategory(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (s *Server) deleteCategory(c echo.Context) error {
	if err := s.categories.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.serviceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
