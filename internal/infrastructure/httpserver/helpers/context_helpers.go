package helpers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
)

// Unauthorized is the error body clients of the catalog API expect.
func Unauthorized(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{"unauthorized": msg})
}

func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	id, ok := GetUserIDRaw(c)
	if !ok {
		return uuid.Nil, Unauthorized("invalid user context")
	}
	return id, nil
}

func GetUserEmailFromContext(c echo.Context) (string, error) {
	s, ok := GetUserEmailRaw(c)
	if !ok {
		return "", Unauthorized("invalid user email context")
	}
	return s, nil
}

// IsStaff reports false when no authenticated user is in context.
func IsStaff(c echo.Context) bool {
	b, ok := GetIsStaffRaw(c)
	return ok && b
}

func GetJWTTokenFromContext(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", Unauthorized("missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", Unauthorized("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", Unauthorized("empty token")
	}
	return token, nil
}

// GetCurrentUserFromContext returns the full acting user object set by JWT middleware
func GetCurrentUserFromContext(c echo.Context) (*user.User, error) {
	u, ok := GetCurrentUserRaw(c)
	if !ok || u == nil {
		return nil, Unauthorized("invalid user context")
	}
	return u, nil
}

// QueryInt parses an integer query parameter, returning def when it is absent.
func QueryInt(c echo.Context, name string, def int64) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, map[string]string{name: "must be an integer"})
	}
	return v, nil
}
