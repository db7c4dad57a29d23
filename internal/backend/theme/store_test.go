package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewStore_MissingFileUsesDefaults(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "theme.json"))
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	if s.Current() != Default() {
		t.Errorf("expected defaults, got %+v", s.Current())
	}
}

func TestNewStore_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.json")
	content := `{"site_name":"Loja","primary":"#000000","unknown":"ignored"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	got := s.Current()
	if got.SiteName != "Loja" || got.Primary != "#000000" {
		t.Errorf("expected file values, got %+v", got)
	}
	if got.FooterBg != Default().FooterBg {
		t.Errorf("expected defaults for omitted keys, got %s", got.FooterBg)
	}
}

func TestNewStore_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if _, err := NewStore(path); err == nil {
		t.Fatal("expected error for malformed theme file")
	}
}

func TestStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "theme.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}

	updated := s.Current().With(map[string]string{"site_name": "Nova", "button_radius": "1rem"})
	if err := s.Save(updated); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if s.Current().SiteName != "Nova" {
		t.Errorf("expected saved snapshot to be active, got %s", s.Current().SiteName)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	if reopened.Current() != updated {
		t.Errorf("expected persisted theme %+v, got %+v", updated, reopened.Current())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the theme file, found %d entries", len(entries))
	}
}

func TestStore_ReloadKeepsCurrentOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	if err := s.Save(Default().With(map[string]string{"site_name": "Boa"})); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if err := s.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if s.Current().SiteName != "Boa" {
		t.Errorf("expected previous snapshot, got %s", s.Current().SiteName)
	}
}

func TestStore_WatchPicksUpExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Watch(ctx); err != nil {
		t.Fatalf("Watch error: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"site_name":"Externo"}`), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.Current().SiteName == "Externo" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("expected watcher to reload theme, got %s", s.Current().SiteName)
}

func TestTheme_GetAndWith(t *testing.T) {
	base := Default()
	changed := base.With(map[string]string{"primary": "#123456", "nope": "x"})

	if changed.Get("primary") != "#123456" {
		t.Errorf("expected primary to change, got %s", changed.Get("primary"))
	}
	if base.Primary == "#123456" {
		t.Error("With must not modify the receiver")
	}
	if changed.Get("nope") != "" {
		t.Error("unknown keys must read as empty")
	}
	for _, key := range Keys {
		if base.Get(key) == "" {
			t.Errorf("default for %s is empty", key)
		}
	}
}
