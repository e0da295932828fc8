package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/AnLuoRidge/Lovely-AIP/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	repo         ports.UserRepository
	emailService ports.EmailService
	logger       *logrus.Logger
}

func NewUserService(repo ports.UserRepository, emailService ports.EmailService, logger *logrus.Logger) ports.UserService {
	return &UserService{
		repo:         repo,
		emailService: emailService,
		logger:       logger,
	}
}

// Register creates an account and sends a welcome mail. A mail failure is
// logged and does not fail the registration.
func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, ports.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	newUser := &user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(ctx, newUser.Email, newUser.Name); err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"user_id": newUser.ID,
				"email":   newUser.Email,
			}).WithError(err).Warn("failed to send welcome email")
		}
	}

	return newUser, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}
