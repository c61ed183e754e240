package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMFARequired        = errors.New("mfa code required")
	ErrMFAInvalid         = errors.New("invalid mfa code")
	ErrMFANotEnrolled     = errors.New("mfa enrollment not started")
)

type Service struct {
	store    *Store
	secret   string
	tokenTTL time.Duration
}

func NewService(store *Store, secret string, tokenTTL time.Duration) *Service {
	return &Service{store: store, secret: secret, tokenTTL: tokenTTL}
}

func (s *Service) Register(ctx context.Context, email, password, displayName string) (User, string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, "", err
	}

	id, err := s.store.CreateUser(ctx, strings.ToLower(strings.TrimSpace(email)), hash, strings.TrimSpace(displayName))
	if err != nil {
		return User{}, "", fmt.Errorf("create user: %w", err)
	}

	user, err := s.store.UserByID(ctx, id)
	if err != nil {
		return User{}, "", err
	}

	token, err := s.issueToken(user)
	return user, token, err
}

func (s *Service) Login(ctx context.Context, email, password, mfaCode string) (User, string, error) {
	user, err := s.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	if user.MFAEnabled {
		if mfaCode == "" {
			return User{}, "", ErrMFARequired
		}
		if user.MFASecret == "" || !totp.Validate(mfaCode, user.MFASecret) {
			return User{}, "", ErrMFAInvalid
		}
	}

	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}

	token, err := s.issueToken(user)
	return user, token, err
}

// BeginMFAEnrollment issues a fresh TOTP secret; the account stays on
// password-only login until ActivateMFA verifies a code against it.
func (s *Service) BeginMFAEnrollment(ctx context.Context, userID string) (secret, otpauthURL string, err error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return "", "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "skilltrack",
		AccountName: user.Email,
	})
	if err != nil {
		return "", "", err
	}

	if err := s.store.SetMFASecret(ctx, userID, key.Secret()); err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func (s *Service) ActivateMFA(ctx context.Context, userID, code string) error {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.MFASecret == "" {
		return ErrMFANotEnrolled
	}
	if !totp.Validate(code, user.MFASecret) {
		return ErrMFAInvalid
	}
	return s.store.EnableMFA(ctx, userID)
}

func (s *Service) issueToken(user User) (string, error) {
	return GenerateToken(s.secret, Claims{UserID: user.ID, Email: user.Email, Admin: user.Admin}, s.tokenTTL)
}
