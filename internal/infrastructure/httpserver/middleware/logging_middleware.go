package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type LoggingMiddleware struct {
	logger *logrus.Logger
}

func NewLoggingMiddleware(logger *logrus.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// RequestLogging logs each completed request at debug level.
func (m *LoggingMiddleware) RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.logger == nil || !m.logger.IsLevelEnabled(logrus.DebugLevel) {
				return next(c)
			}
			start := time.Now()
			err := next(c)
			entry := m.logger.WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"route":      c.Path(),
				"uri":        c.Request().RequestURI,
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			})
			if err != nil {
				entry = entry.WithError(err)
			}
			entry.Debug("request handled")
			return err
		}
	}
}
