package ports

import (
	"context"
	"errors"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
	"github.com/google/uuid"
)

// ErrUserNotFound is returned by UserRepository lookups that match no row.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// UserService defines the interface for account registration and lookup
type UserService interface {
	Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
}
