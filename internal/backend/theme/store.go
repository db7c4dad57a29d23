package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Store serves the current theme snapshot and persists changes to a JSON
// file. Readers never block; Save is the only writer.
type Store struct {
	path    string
	current atomic.Pointer[Theme]
	mu      sync.Mutex
}

// NewStore loads path over the defaults. A missing file is not an error.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	t, err := s.read()
	if err != nil {
		return nil, err
	}
	s.current.Store(&t)
	return s, nil
}

// Current returns the active snapshot
func (s *Store) Current() Theme {
	return *s.current.Load()
}

// Save writes t to the theme file and makes it the active snapshot.
func (s *Store) Save(t Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode theme: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create theme directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp theme file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write theme: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write theme: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace theme file %s: %w", s.path, err)
	}

	s.current.Store(&t)
	slog.Info("theme saved", "path", s.path)
	return nil
}

// Reload re-reads the theme file. On error the active snapshot is kept.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.read()
	if err != nil {
		return err
	}
	s.current.Store(&t)
	return nil
}

// Watch reloads the theme whenever the file changes on disk until ctx is
// done. The parent directory is watched so atomic replacements are seen.
func (s *Store) Watch(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create theme directory %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go func() {
		defer func() {
			_ = watcher.Close()
		}()
		target := filepath.Clean(s.path)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if err := s.Reload(); err != nil {
					slog.Warn("theme reload failed, keeping current theme", "path", s.path, "error", err)
					continue
				}
				slog.Debug("theme reloaded", "path", s.path, "op", event.Op.String())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("theme watcher error", "error", err)
			}
		}
	}()
	return nil
}

func (s *Store) read() (Theme, error) {
	t := Default()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("failed to read theme %s: %w", s.path, err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return t, fmt.Errorf("failed to parse theme %s: %w", s.path, err)
	}
	return t.With(values), nil
}
