// Package services – AuthService
//
// This file implements the AuthService, which signs dashboard users in with
// e-mail and password, verifies the bearer tokens it issued, and sets user
// passwords. Every login failure is reported as ErrInvalidCredentials so
// clients cannot tell unknown accounts from wrong passwords; the cause is
// only logged.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/feedback-dashboard/internal/auth"
	"github.com/tbourn/feedback-dashboard/internal/domain"
)

// UserStore is the storage contract for dashboard users.
type UserStore interface {
	// GetUserByEmail returns the user with this e-mail or domain.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpsertUser creates the user or replaces its password hash.
	UpsertUser(ctx context.Context, email, passwordHash string) (*domain.User, error)
}

// TokenAuthority issues and verifies bearer tokens. *auth.Tokens implements it.
type TokenAuthority interface {
	Issue(email string) (string, time.Time, error)
	Parse(raw string) (string, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
}

// ErrInvalidEmail is returned by SetPassword for malformed addresses.
var ErrInvalidEmail = errors.New("invalid email address")

// AuthService authenticates dashboard users.
type AuthService struct {
	Users  UserStore
	Tokens TokenAuthority
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore, tokens TokenAuthority) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

// Login checks the credentials and issues a token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	lg := zerolog.Ctx(ctx)
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			lg.Error().Err(err).Msg("login: lookup user")
		}
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.Tokens.Issue(u.Email)
	if err != nil {
		lg.Error().Err(err).Msg("login: issue token")
		return nil, ErrInvalidCredentials
	}
	return &Session{Token: token, ExpiresAt: exp, Email: u.Email}, nil
}

// Verify returns the e-mail a valid token was issued for.
func (s *AuthService) Verify(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrUnauthenticated
	}
	email, err := s.Tokens.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return email, nil
}

// SetPassword creates the user when needed and stores the hash of password.
func (s *AuthService) SetPassword(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, ErrInvalidEmail
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.Users.UpsertUser(ctx, email, hash)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
