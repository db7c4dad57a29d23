package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired session ids
var ErrNotFound = errors.New("session not found")

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Data is the server-side state behind a session cookie
type Data struct {
	AdminID   int64     `json:"admin_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (d *Data) Authenticated() bool {
	return d != nil && d.AdminID > 0
}

func (d *Data) AddFlash(category, message string) {
	d.Flashes = append(d.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns pending flashes and clears them
func (d *Data) PopFlashes() []Flash {
	flashes := d.Flashes
	d.Flashes = nil
	return flashes
}

// Store persists session data keyed by an opaque id. Every write refreshes
// the expiry.
type Store interface {
	Create(ctx context.Context, data *Data) (string, error)
	Get(ctx context.Context, id string) (*Data, error)
	Save(ctx context.Context, id string, data *Data) error
	Delete(ctx context.Context, id string) error
	Close() error
}

func newID() string {
	return uuid.NewString()
}
