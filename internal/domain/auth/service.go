package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"filedrive/internal/apperror"
	"filedrive/internal/pkg/validator"
)

// Service contains sign-up and credential checks. Session state lives in the Gate.
type Service struct {
	users Repository
	log   logrus.FieldLogger
}

func NewService(users Repository, log logrus.FieldLogger) *Service {
	return &Service{users: users, log: log}
}

// SignUp validates the form, collecting every failure, and creates the account.
func (s *Service) SignUp(ctx context.Context, form SignUpForm) (*User, error) {
	form.normalize()

	messages := validator.Validate(&form)
	if form.Email != "" {
		exists, err := s.users.ExistsByEmail(ctx, form.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			messages = append(messages, ErrEmailAlreadyExists.Error())
		}
	}
	if len(messages) > 0 {
		return nil, apperror.NewValidationError(messages...)
	}

	hash, err := HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        form.Email,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, apperror.NewValidationError(ErrEmailAlreadyExists.Error())
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("user signed up")
	user.PasswordHash = ""
	return user, nil
}

// LogIn checks credentials. Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) LogIn(ctx context.Context, form LogInForm) (*User, error) {
	email := strings.TrimSpace(form.Email)
	if email == "" || form.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.log.WithField("reason", "unknown email").Info("log in rejected")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := CheckPassword(form.Password, user.PasswordHash); err != nil {
		s.log.WithFields(logrus.Fields{"user_id": user.ID, "reason": "password mismatch"}).Info("log in rejected")
		return nil, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}
