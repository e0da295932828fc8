package ports

import (
	"context"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/auth"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
	GenerateToken(u *user.User) (string, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}
