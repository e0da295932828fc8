package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const healthCheckTimeout = 2 * time.Second

// healthCheck reports 200 when every dependency answers and 503 otherwise.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	deps := make(map[string]string, len(s.healthCheckers))
	overall := "healthy"
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		if err := hc.Check(ctx); err != nil {
			deps[hc.Name()] = "unhealthy"
			overall = "degraded"
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"dependency": hc.Name()}).WithError(err).Warn("health check failed")
			}
			continue
		}
		deps[hc.Name()] = "healthy"
	}

	code := http.StatusOK
	if overall != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]interface{}{
		"status":       overall,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"service":      "bookstore",
		"dependencies": deps,
	})
}
