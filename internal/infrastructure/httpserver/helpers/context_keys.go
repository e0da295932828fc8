package helpers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/auth"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
)

type ctxKey string

const (
	keyUserID      ctxKey = "user_id"
	keyUserEmail   ctxKey = "user_email"
	keyIsStaff     ctxKey = "is_staff"
	keyCurrentUser ctxKey = "current_user"
)

// SetClaims copies the token claims into the request context.
func SetClaims(c echo.Context, claims *auth.Claims) {
	SetUserID(c, claims.UserID)
	SetUserEmail(c, claims.Email)
	SetIsStaff(c, claims.IsStaff)
}

func SetUserID(c echo.Context, id uuid.UUID) { c.Set(string(keyUserID), id) }
func GetUserIDRaw(c echo.Context) (uuid.UUID, bool) {
	v := c.Get(string(keyUserID))
	id, ok := v.(uuid.UUID)
	return id, ok
}

func SetUserEmail(c echo.Context, email string) { c.Set(string(keyUserEmail), email) }
func GetUserEmailRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyUserEmail))
	s, ok := v.(string)
	return s, ok
}

func SetIsStaff(c echo.Context, staff bool) { c.Set(string(keyIsStaff), staff) }
func GetIsStaffRaw(c echo.Context) (bool, bool) {
	v := c.Get(string(keyIsStaff))
	b, ok := v.(bool)
	return b, ok
}

func SetCurrentUser(c echo.Context, u *user.User) { c.Set(string(keyCurrentUser), u) }
func GetCurrentUserRaw(c echo.Context) (*user.User, bool) {
	v := c.Get(string(keyCurrentUser))
	u, ok := v.(*user.User)
	return u, ok
}
