// Package mocks holds hand-written function-field fakes of the ports
// interfaces. A nil Fn falls back to a benign default.
package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/auth"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
)

// UserRepositoryMock is a lightweight mock for UserRepository
type UserRepositoryMock struct {
	CreateFn     func(ctx context.Context, u *user.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*user.User, error)
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ports.ErrUserNotFound
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, ports.ErrUserNotFound
}

// NewInMemoryUserRepository returns a UserRepositoryMock backed by a map.
func NewInMemoryUserRepository() *UserRepositoryMock {
	var mu sync.Mutex
	byID := map[uuid.UUID]*user.User{}
	return &UserRepositoryMock{
		CreateFn: func(ctx context.Context, u *user.User) error {
			mu.Lock()
			defer mu.Unlock()
			cp := *u
			byID[u.ID] = &cp
			return nil
		},
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
			mu.Lock()
			defer mu.Unlock()
			if u, ok := byID[id]; ok {
				cp := *u
				return &cp, nil
			}
			return nil, ports.ErrUserNotFound
		},
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			mu.Lock()
			defer mu.Unlock()
			for _, u := range byID {
				if u.Email == email {
					cp := *u
					return &cp, nil
				}
			}
			return nil, ports.ErrUserNotFound
		},
	}
}

// EmailServiceMock records welcome mails.
type EmailServiceMock struct {
	SendWelcomeEmailFn func(ctx context.Context, email, userName string) error

	mu   sync.Mutex
	Sent []string
}

func (m *EmailServiceMock) SendWelcomeEmail(ctx context.Context, email, userName string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, email)
	m.mu.Unlock()
	if m.SendWelcomeEmailFn != nil {
		return m.SendWelcomeEmailFn(ctx, email, userName)
	}
	return nil
}

// CacheInvalidatorMock records every invalidated tag in call order.
type CacheInvalidatorMock struct {
	InvalidateFn func(ctx context.Context, tag string) error

	mu   sync.Mutex
	tags []string
}

func (m *CacheInvalidatorMock) Invalidate(ctx context.Context, tag string) error {
	m.mu.Lock()
	m.tags = append(m.tags, tag)
	m.mu.Unlock()
	if m.InvalidateFn != nil {
		return m.InvalidateFn(ctx, tag)
	}
	return nil
}

// Tags returns a copy of the tags invalidated so far.
func (m *CacheInvalidatorMock) Tags() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tags...)
}

// Reset forgets recorded tags.
func (m *CacheInvalidatorMock) Reset() {
	m.mu.Lock()
	m.tags = nil
	m.mu.Unlock()
}

// RateLimiterServiceMock allows every request unless AllowFn says otherwise.
type RateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, subject string) (bool, int, int, time.Time, error)
}

func (m *RateLimiterServiceMock) Allow(ctx context.Context, subject string) (bool, int, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, subject)
	}
	return true, 0, 0, time.Now().Add(time.Minute), nil
}

// UserServiceMock is a lightweight mock for UserService
type UserServiceMock struct {
	RegisterFn func(ctx context.Context, req *user.RegisterRequest) (*user.User, error)
	GetUserFn  func(ctx context.Context, id uuid.UUID) (*user.User, error)
}

func (m *UserServiceMock) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}
func (m *UserServiceMock) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return nil, ports.ErrUserNotFound
}

// AuthServiceMock is a lightweight mock for AuthService
type AuthServiceMock struct {
	LoginFn         func(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
	GenerateTokenFn func(u *user.User) (string, error)
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)
}

func (m *AuthServiceMock) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}
func (m *AuthServiceMock) GenerateToken(u *user.User) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(u)
	}
	return "", errors.New("not implemented")
}
func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return nil, errors.New("invalid token")
}

var (
	_ ports.UserService        = (*UserServiceMock)(nil)
	_ ports.AuthService        = (*AuthServiceMock)(nil)
	_ ports.UserRepository     = (*UserRepositoryMock)(nil)
	_ ports.EmailService       = (*EmailServiceMock)(nil)
	_ ports.CacheInvalidator   = (*CacheInvalidatorMock)(nil)
	_ ports.RateLimiterService = (*RateLimiterServiceMock)(nil)
)
