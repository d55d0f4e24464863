// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package account registers and authenticates students and carries their
// login session between CLI invocations as a signed token.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/elective-advisor/internal/catalog"
	"github.com/pdiddy/elective-advisor/internal/logging"
	"github.com/pdiddy/elective-advisor/pkg/types"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password. The two cases are not distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned by Register when the email is registered.
	ErrEmailTaken = errors.New("email already registered")
)

// UserStore is the persistence Service needs.
type UserStore interface {
	CreateUser(ctx context.Context, fullName, email, passwordHash string) (types.User, error)
	UserByEmail(ctx context.Context, email string) (types.User, error)
	Preferences(ctx context.Context, userID int64) (types.Preferences, error)
	LogInteraction(ctx context.Context, userID int64, action, details string) error
}

// Session is the result of a successful login.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	StudentID string    `json:"student_id,omitempty"`
	GPA       *float64  `json:"gpa,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Service implements registration and login on top of a UserStore.
type Service struct {
	Store  UserStore
	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *Service) logger() *slog.Logger {
	return logging.OrDefault(s.Logger)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns the stored user.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (types.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = NormalizeEmail(email)

	if fullName == "" {
		return types.User{}, fmt.Errorf("full name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return types.User{}, fmt.Errorf("invalid email %q", email)
	}
	if len(password) < MinPasswordLength {
		return types.User{}, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.Store.CreateUser(ctx, fullName, email, hash)
	if errors.Is(err, catalog.ErrDuplicate) {
		s.logger().Warn("registration rejected", "email", email, "reason", "email taken")
		return types.User{}, ErrEmailTaken
	}
	if err != nil {
		return types.User{}, fmt.Errorf("registering %s: %w", email, err)
	}

	s.logger().Info("registered user", "user_id", user.ID, "email", email)
	if err := s.Store.LogInteraction(ctx, user.ID, catalog.ActionRegister, ""); err != nil {
		s.logger().Warn("could not log interaction", "err", err)
	}
	return user, nil
}

// Authenticate checks the credentials and returns a new Session carrying the
// user's student ID and GPA when they have saved preferences.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Session, error) {
	email = NormalizeEmail(email)

	user, err := s.Store.UserByEmail(ctx, email)
	if errors.Is(err, catalog.ErrNotFound) {
		s.logger().Warn("authentication failed", "email", email, "reason", "unknown email")
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("authenticating %s: %w", email, err)
	}

	if !VerifyPassword(user.PasswordHash, password) {
		s.logger().Warn("authentication failed", "email", email, "reason", "wrong password")
		return Session{}, ErrInvalidCredentials
	}

	sess := Session{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		IssuedAt: s.now(),
	}

	prefs, err := s.Store.Preferences(ctx, user.ID)
	switch {
	case err == nil:
		sess.StudentID = prefs.StudentID
		sess.GPA = prefs.GPA
	case errors.Is(err, catalog.ErrNotFound):
	default:
		return Session{}, fmt.Errorf("loading preferences: %w", err)
	}

	s.logger().Info("user authenticated", "user_id", user.ID, "session", sess.ID)
	if err := s.Store.LogInteraction(ctx, user.ID, catalog.ActionLogin, ""); err != nil {
		s.logger().Warn("could not log interaction", "err", err)
	}
	return sess, nil
}
