package database

import (
	"errors"
	"strings"
	"testing"
)

func TestVerifyAdminPassword(t *testing.T) {
	ds := newTestDB(t)
	if err := ds.SetAdminPassword("admin", "segredo"); err != nil {
		t.Fatalf("SetAdminPassword error: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"Correct password", "admin", "segredo", nil},
		{"Wrong password", "admin", "errado", ErrInvalidCredentials},
		{"Empty password", "admin", "", ErrInvalidCredentials},
		{"Unknown user", "ghost", "segredo", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin, err := ds.VerifyAdminPassword(tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && admin.Username != "admin" {
				t.Errorf("expected admin, got %+v", admin)
			}
		})
	}
}

func TestSetAdminPassword_Upserts(t *testing.T) {
	ds := newTestDB(t)
	if err := ds.SetAdminPassword("admin", "um"); err != nil {
		t.Fatalf("SetAdminPassword error: %v", err)
	}
	if err := ds.SetAdminPassword("admin", "dois"); err != nil {
		t.Fatalf("SetAdminPassword error: %v", err)
	}

	if _, err := ds.VerifyAdminPassword("admin", "um"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password must no longer verify, got %v", err)
	}
	if _, err := ds.VerifyAdminPassword("admin", "dois"); err != nil {
		t.Errorf("new password must verify, got %v", err)
	}

	if err := ds.SetAdminPassword("admin", ""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestEnsureDefaultAdmin_CreatesWhenMissing(t *testing.T) {
	ds := newTestDB(t)
	if err := ds.EnsureDefaultAdmin("admin", "admin123"); err != nil {
		t.Fatalf("EnsureDefaultAdmin error: %v", err)
	}
	admin, err := ds.FirstAdmin()
	if err != nil {
		t.Fatalf("FirstAdmin error: %v", err)
	}
	if admin.Username != "admin" || !strings.HasPrefix(admin.PasswordHash, "$2") {
		t.Errorf("expected bcrypt hashed default admin, got %+v", admin)
	}

	if err := ds.SetAdminPassword("admin", "trocada"); err != nil {
		t.Fatalf("SetAdminPassword error: %v", err)
	}
	if err := ds.EnsureDefaultAdmin("admin", "admin123"); err != nil {
		t.Fatalf("EnsureDefaultAdmin error: %v", err)
	}
	if _, err := ds.VerifyAdminPassword("admin", "trocada"); err != nil {
		t.Errorf("existing password must be kept, got %v", err)
	}
}

func TestEnsureDefaultAdmin_RehashesPlaintext(t *testing.T) {
	ds := newTestDB(t)
	sqlite := ds.(*SQLiteDatabase)
	if _, err := sqlite.db.Exec("INSERT INTO admins (username, password_hash) VALUES ('dona', 'texto-puro')"); err != nil {
		t.Fatalf("insert error: %v", err)
	}

	if err := ds.EnsureDefaultAdmin("admin", "admin123"); err != nil {
		t.Fatalf("EnsureDefaultAdmin error: %v", err)
	}
	admin, err := ds.GetAdminByUsername("dona")
	if err != nil {
		t.Fatalf("GetAdminByUsername error: %v", err)
	}
	if admin.PasswordHash == "texto-puro" {
		t.Fatal("expected plain text password to be re-hashed")
	}
	if _, err := ds.VerifyAdminPassword("dona", "texto-puro"); err != nil {
		t.Errorf("re-hashed password must still verify, got %v", err)
	}
	if _, err := ds.GetAdminByUsername("admin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("no default admin should be created when one exists, got %v", err)
	}
}
