package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jo-hoe/storefront/internal/backend/database"
)

func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "store.db")
	configPath := filepath.Join(dir, "config.yaml")
	content := "database:\n  type: sqlite\n  connectionString: " + dbPath + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return configPath, dbPath
}

func TestSetPasswordCommand(t *testing.T) {
	configPath, dbPath := writeTestConfig(t)

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", configPath, "--username", "gerente", "s3nha-forte"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(out.String(), "password updated for gerente") {
		t.Errorf("unexpected output %q", out.String())
	}

	ds, err := database.NewDatabase("sqlite", dbPath)
	if err != nil {
		t.Fatalf("NewDatabase error: %v", err)
	}
	defer ds.Close()
	if _, err := ds.VerifyAdminPassword("gerente", "s3nha-forte"); err != nil {
		t.Errorf("expected new password to verify, got %v", err)
	}
}

func TestSetPasswordCommand_RequiresPassword(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no argument", args: []string{"--config", configPath}},
		{name: "empty password", args: []string{"--config", configPath, ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCommand()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
