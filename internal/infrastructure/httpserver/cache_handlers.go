package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type invalidateRequest struct {
	Tag string `json:"tag"`
}

// invalidateCache drops the entries recorded under a tag. An empty tag
// flushes the whole query cache.
func (s *Server) invalidateCache(c echo.Context) error {
	var req invalidateRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(c.Request().Context(), req.Tag); err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"tag": req.Tag}).WithError(err).Error("cache invalidation failed")
			}
			return errorBody(http.StatusServiceUnavailable, "cache", "Cache is unavailable")
		}
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"tag": req.Tag}).Info("cache invalidated")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "tag": req.Tag})
}
