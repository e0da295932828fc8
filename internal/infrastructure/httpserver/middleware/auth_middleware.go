package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/httpserver/helpers"
)

type JWTMiddleware struct {
	authService ports.AuthService
	userService ports.UserService
	logger      *logrus.Logger
}

func NewJWTMiddleware(authService ports.AuthService, userService ports.UserService, logger *logrus.Logger) *JWTMiddleware {
	return &JWTMiddleware{authService: authService, userService: userService, logger: logger}
}

// RequireJWT creates middleware that validates JWT tokens and sets user context
func (m *JWTMiddleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := helpers.GetJWTTokenFromContext(c)
			if err != nil {
				return err
			}

			claims, err := m.authService.ValidateToken(c.Request().Context(), tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path, "error": err.Error()}).Warn("JWT validation failed")
				}
				return helpers.Unauthorized("invalid token")
			}

			userObj, err := m.userService.GetUser(c.Request().Context(), claims.UserID)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"user_id": claims.UserID}).WithError(err).Warn("token subject could not be loaded")
				}
				return helpers.Unauthorized("user no longer exists")
			}

			// Staff status comes from the stored user so revocation applies before token expiry.
			claims.IsStaff = userObj.IsStaff
			helpers.SetClaims(c, claims)
			helpers.SetCurrentUser(c, userObj)

			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"user_id": claims.UserID, "is_staff": claims.IsStaff}).Debug("jwt validated and user context set")
			}
			return next(c)
		}
	}
}

// RequireStaff rejects requests from non-staff users. It must run after RequireJWT.
func (m *JWTMiddleware) RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := helpers.GetUserIDRaw(c); !ok {
				return helpers.Unauthorized("authentication required")
			}
			if !helpers.IsStaff(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{"unauthorized": "Cannot modify the book"})
			}
			return next(c)
		}
	}
}
