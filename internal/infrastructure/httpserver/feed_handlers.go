package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const rssContentType = "application/rss+xml; charset=utf-8"

func (s *Server) bookListFeed(c echo.Context) error {
	baseURL := c.Scheme() + "://" + c.Request().Host
	rss, err := s.feed.BookListsRSS(c.Request().Context(), baseURL, c.Request().URL.Path)
	if err != nil {
		return s.serviceError(c, err)
	}
	return c.Blob(http.StatusOK, rssContentType, []byte(rss))
}
