package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	config "github.com/AnLuoRidge/Lovely-AIP/configs"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/auth"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/AnLuoRidge/Lovely-AIP/internal/utils"
	"github.com/sirupsen/logrus"
)

type AuthService struct {
	userRepo  ports.UserRepository
	jwtConfig *config.JWTConfig
	logger    *logrus.Logger
}

func NewAuthService(userRepo ports.UserRepository, jwtConfig *config.JWTConfig, logger *logrus.Logger) ports.AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

// Login checks the credentials and issues an access token. Unknown email and
// wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	foundUser, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !utils.CheckPassword(foundUser.PasswordHash, req.Password) {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": foundUser.ID}).Info("login rejected: wrong password")
		}
		return nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(foundUser)
	if err != nil {
		return nil, err
	}

	return &auth.LoginResponse{
		Success:   true,
		Token:     "Bearer " + token,
		ExpiresIn: int64(s.jwtConfig.AccessTokenTTL.Seconds()),
	}, nil
}
