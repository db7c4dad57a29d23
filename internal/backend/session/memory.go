package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data    Data
	expires time.Time
}

// MemoryStore keeps sessions in process. Sessions are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, data *Data) (string, error) {
	id := newID()
	if data.CreatedAt.IsZero() {
		data.CreatedAt = s.now()
	}
	return id, s.Save(ctx, id, data)
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(entry.expires) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}
	data := entry.data
	data.Flashes = append([]Flash(nil), entry.data.Flashes...)
	return &data, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, data *Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *data
	stored.Flashes = append([]Flash(nil), data.Flashes...)
	s.entries[id] = memoryEntry{data: stored, expires: s.now().Add(s.ttl)}
	s.sweepLocked()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expires) {
			delete(s.entries, id)
		}
	}
}
