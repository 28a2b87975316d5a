// Package service contains the business logic layer: validation, role
// lookups, the checkout flow, and payment reconciliation. Services receive
// repository interfaces and a logger; they know nothing about HTTP or about
// the concrete Mongo store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bushra/buzzhub/internal/apperror"
	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/repository"
)

// UserService handles accounts and role lookups. It is the RoleStore the
// authorization gate consults on every role-gated request.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Register creates the user on first sign-in. Registration is
// upsert-if-absent: a second registration for the same email is not an error,
// it just reports the account already exists so the client can proceed to
// sign in.
func (s *UserService) Register(ctx context.Context, user *model.User) (created bool, err error) {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if user.Email == "" {
		return false, apperror.ValidationFailed("email", "email is required")
	}
	user.CreatedAt = time.Now()

	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return false, nil
		}
		return false, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered", slog.String("email", user.Email))
	return true, nil
}

// RoleOf returns the user's assigned role. A principal with no user document
// gets RoleUnset; least privilege, never an error. Storage failures do
// propagate; the gate must not grant access because a lookup timed out.
func (s *UserService) RoleOf(ctx context.Context, email string) (model.Role, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return model.RoleUnset, nil
		}
		return model.RoleUnset, fmt.Errorf("looking up role for %s: %w", email, err)
	}
	return user.Role, nil
}

// List returns users, optionally filtered to a single email.
func (s *UserService) List(ctx context.Context, emailFilter string) ([]model.User, error) {
	users, err := s.users.List(ctx, strings.TrimSpace(emailFilter))
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// ChangeRole assigns a role to an existing user. The role must be one of the
// closed set; anything else is a validation error, not a new role.
func (s *UserService) ChangeRole(ctx context.Context, email, roleStr string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	role, ok := model.ParseRole(roleStr)
	if !ok {
		return apperror.ValidationFailed("role", fmt.Sprintf("unknown role %q", roleStr))
	}

	if err := s.users.UpdateRole(ctx, email, role); err != nil {
		return fmt.Errorf("changing role: %w", err)
	}

	s.logger.Info("role changed",
		slog.String("email", email),
		slog.String("role", string(role)),
	)
	return nil
}
