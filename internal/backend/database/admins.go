package database

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a username/password pair does not match
var ErrInvalidCredentials = errors.New("invalid credentials")

func (s *SQLiteDatabase) GetAdminByUsername(username string) (*Admin, error) {
	var a Admin
	err := s.db.QueryRow("SELECT id, username, password_hash FROM admins WHERE username = ?", username).
		Scan(&a.ID, &a.Username, &a.PasswordHash)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *SQLiteDatabase) FirstAdmin() (*Admin, error) {
	var a Admin
	err := s.db.QueryRow("SELECT id, username, password_hash FROM admins ORDER BY id LIMIT 1").
		Scan(&a.ID, &a.Username, &a.PasswordHash)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// VerifyAdminPassword checks password against the stored bcrypt hash. Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func (s *SQLiteDatabase) VerifyAdminPassword(username, password string) (*Admin, error) {
	admin, err := s.GetAdminByUsername(username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if admin.PasswordHash == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// SetAdminPassword hashes password and stores it for username, creating the
// admin when it does not exist yet.
func (s *SQLiteDatabase) SetAdminPassword(username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password must not be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO admins (username, password_hash) VALUES (?, ?) ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash",
		username, string(hashed),
	)
	if err != nil {
		return fmt.Errorf("failed to store password for %s: %w", username, err)
	}
	return nil
}

// EnsureDefaultAdmin creates the default admin when no admin exists and
// re-hashes any admin password that is still stored in plain text.
func (s *SQLiteDatabase) EnsureDefaultAdmin(username, password string) error {
	admin, err := s.FirstAdmin()
	if errors.Is(err, ErrNotFound) {
		slog.Warn("no admin found, creating default admin; change its password", "username", username)
		return s.SetAdminPassword(username, password)
	}
	if err != nil {
		return fmt.Errorf("failed to load admin: %w", err)
	}

	if admin.PasswordHash == "" || isBcryptHash(admin.PasswordHash) {
		return nil
	}
	slog.Warn("re-hashing plain text admin password", "username", admin.Username)
	return s.SetAdminPassword(admin.Username, admin.PasswordHash)
}

func isBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
