package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STOREFRONT_ENV", "")
	path := writeConfig(t, "database:\n  type: sqlite\n  connectionString: \":memory:\"\n")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if config.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, config.Port)
	}
	if config.Variants.Format != "webp" || config.Variants.Quality != 85 {
		t.Errorf("unexpected variant defaults %+v", config.Variants)
	}
	if len(config.Variants.ProductWidths) != 6 || config.Variants.ProductWidths[0] != 480 {
		t.Errorf("unexpected product ladder %v", config.Variants.ProductWidths)
	}
	if config.Session.Store != "memory" || config.Session.TTL != 12*time.Hour {
		t.Errorf("unexpected session defaults %+v", config.Session)
	}
	if config.Catalog.DefaultPerPage != 12 {
		t.Errorf("expected 12 items per page, got %d", config.Catalog.DefaultPerPage)
	}
	if config.Production {
		t.Error("expected non-production by default")
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	t.Setenv("PORT", "")
	path := writeConfig(t, `
port: 8080
logLevel: debug
static:
  dir: public
  urlPrefix: /assets
uploads:
  productDir: public/p
  bannerDir: public/b
variants:
  format: jpeg
  quality: 70
  productWidths: [320, 640]
session:
  ttl: 30m
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if config.Port != 8080 || config.LogLevel != "debug" {
		t.Errorf("unexpected port/log level %d %s", config.Port, config.LogLevel)
	}
	if config.Static.URLPrefix != "/assets" || config.Uploads.ProductDir != "public/p" {
		t.Errorf("unexpected paths %+v %+v", config.Static, config.Uploads)
	}
	if config.Variants.Format != "jpeg" || config.Variants.Quality != 70 || len(config.Variants.ProductWidths) != 2 {
		t.Errorf("unexpected variants %+v", config.Variants)
	}
	if config.Session.TTL != 30*time.Minute {
		t.Errorf("expected ttl 30m, got %v", config.Session.TTL)
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "port: 7000\n")

	tests := []struct {
		name     string
		port     string
		expected int
	}{
		{"Valid PORT overrides file", "9000", 9000},
		{"Invalid PORT keeps file value", "abc", 7000},
		{"Blank PORT keeps file value", "  ", 7000},
		{"Out of range PORT keeps file value", "70000", 7000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.port)
			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig error: %v", err)
			}
			if config.Port != tt.expected {
				t.Errorf("expected port %d, got %d", tt.expected, config.Port)
			}
		})
	}
}

func TestLoadConfig_Production(t *testing.T) {
	t.Setenv("PORT", "")
	path := writeConfig(t, "port: 7000\n")

	t.Setenv("STOREFRONT_ENV", "production")
	t.Setenv("STOREFRONT_SECRET_KEY", "")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for production without secret key")
	}

	t.Setenv("STOREFRONT_SECRET_KEY", "s3cret")
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if !config.Production || config.SecretKey != "s3cret" {
		t.Errorf("expected production config with secret, got %v %q", config.Production, config.SecretKey)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STOREFRONT_ENV", "")

	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"Descending ladder", "variants:\n  productWidths: [768, 480]\n", "ascending"},
		{"Non positive width", "variants:\n  bannerWidths: [0, 480]\n", "positive"},
		{"Quality out of range", "variants:\n  quality: 101\n", "quality"},
		{"Unknown database", "database:\n  type: mysql\n", "database"},
		{"Unknown session store", "session:\n  store: memcached\n", "session store"},
		{"Redis without address", "session:\n  store: redis\n", "redis.addr"},
		{"Upload outside static", "uploads:\n  productDir: /tmp/elsewhere\n", "not below static"},
		{"Unknown log level", "logLevel: verbose\n", "log level"},
		{"Malformed yaml", "port: [", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
