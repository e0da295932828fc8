package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/AnLuoRidge/Lovely-AIP/configs"
	"github.com/AnLuoRidge/Lovely-AIP/internal/application/services"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/auth"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
	"github.com/AnLuoRidge/Lovely-AIP/internal/testutil/mocks"
	"github.com/AnLuoRidge/Lovely-AIP/internal/utils"
)

func register(t *testing.T, svc interface {
	Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error)
}, email, password string) *user.User {
	t.Helper()
	u, err := svc.Register(context.Background(), &user.RegisterRequest{
		Name: "Ada", Email: email, Password: password, Password2: password,
	})
	require.NoError(t, err)
	return u
}

func TestUserService_Register(t *testing.T) {
	repo := mocks.NewInMemoryUserRepository()
	mailer := &mocks.EmailServiceMock{}
	svc := services.NewUserService(repo, mailer, nil)

	u := register(t, svc, "  Ada@Example.com ", "lovelace1815")
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "lovelace1815", u.PasswordHash)
	assert.True(t, utils.CheckPassword(u.PasswordHash, "lovelace1815"))
	assert.Equal(t, []string{"ada@example.com"}, mailer.Sent)

	_, err := svc.Register(context.Background(), &user.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "lovelace1815", Password2: "lovelace1815",
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	_, err = svc.Register(context.Background(), &user.RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "onlyletters", Password2: "onlyletters",
	})
	assert.ErrorIs(t, err, utils.ErrPasswordNoDigit)

	got, err := svc.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
}

func TestUserService_MailFailureDoesNotFailRegistration(t *testing.T) {
	mailer := &mocks.EmailServiceMock{SendWelcomeEmailFn: func(ctx context.Context, email, userName string) error {
		return errors.New("smtp down")
	}}
	svc := services.NewUserService(mocks.NewInMemoryUserRepository(), mailer, nil)

	u := register(t, svc, "ada@example.com", "lovelace1815")
	assert.NotNil(t, u)
	assert.Len(t, mailer.Sent, 1)
}

func newAuth(repo *mocks.UserRepositoryMock, ttl time.Duration) *services.AuthService {
	return services.NewAuthService(repo, &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: ttl, Issuer: "bookstore"}, nil).(*services.AuthService)
}

func TestAuthService_LoginIssuesBearerToken(t *testing.T) {
	repo := mocks.NewInMemoryUserRepository()
	u := register(t, services.NewUserService(repo, nil, nil), "ada@example.com", "lovelace1815")
	svc := newAuth(repo, time.Hour)

	resp, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "ADA@example.com", Password: "lovelace1815"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	require.True(t, strings.HasPrefix(resp.Token, "Bearer "))

	claims, err := svc.ValidateToken(context.Background(), strings.TrimPrefix(resp.Token, "Bearer "))
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "bookstore", claims.Issuer)
	assert.False(t, claims.IsStaff)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	repo := mocks.NewInMemoryUserRepository()
	register(t, services.NewUserService(repo, nil, nil), "ada@example.com", "lovelace1815")
	svc := newAuth(repo, time.Hour)

	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "ada@example.com", Password: "wrong-password1"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &auth.LoginRequest{Email: "nobody@example.com", Password: "lovelace1815"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_ValidateTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	repo := mocks.NewInMemoryUserRepository()
	u := register(t, services.NewUserService(repo, nil, nil), "ada@example.com", "lovelace1815")

	expired, err := newAuth(repo, -time.Minute).GenerateToken(u)
	require.NoError(t, err)
	_, err = newAuth(repo, time.Hour).ValidateToken(context.Background(), expired)
	assert.Error(t, err)

	foreign, err := services.NewAuthService(repo, &config.JWTConfig{Secret: "other", AccessTokenTTL: time.Hour}, nil).GenerateToken(u)
	require.NoError(t, err)
	_, err = newAuth(repo, time.Hour).ValidateToken(context.Background(), foreign)
	assert.Error(t, err)
}
