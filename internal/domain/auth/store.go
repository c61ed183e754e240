package auth

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type User struct {
	ID           string
	Email        string
	DisplayName  string
	Admin        bool
	PasswordHash string
	MFAEnabled   bool
	MFASecret    string
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash, displayName string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, display_name)
    VALUES ($1, $2, $3)
    RETURNING id
  `, email, passwordHash, displayName).Scan(&id)
	return id, err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	return s.scanUser(ctx, "SELECT id, email, display_name, is_admin, password_hash, mfa_enabled, mfa_secret FROM users WHERE email = $1", email)
}

func (s *Store) UserByID(ctx context.Context, userID string) (User, error) {
	return s.scanUser(ctx, "SELECT id, email, display_name, is_admin, password_hash, mfa_enabled, mfa_secret FROM users WHERE id = $1", userID)
}

func (s *Store) scanUser(ctx context.Context, query string, arg any) (User, error) {
	var out User
	var secret sql.NullString
	err := s.DB.QueryRow(ctx, query, arg).Scan(&out.ID, &out.Email, &out.DisplayName, &out.Admin, &out.PasswordHash, &out.MFAEnabled, &secret)
	if err != nil {
		return User{}, err
	}
	out.MFASecret = secret.String
	return out, nil
}

func (s *Store) SetMFASecret(ctx context.Context, userID, secret string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET mfa_secret = $1, mfa_enabled = false, updated_at = now() WHERE id = $2", secret, userID)
	return err
}

func (s *Store) EnableMFA(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET mfa_enabled = true, updated_at = now() WHERE id = $1", userID)
	return err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}
