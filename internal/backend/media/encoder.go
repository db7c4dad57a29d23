package media

import (
	"fmt"
	"image"
	"io"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
)

// Encoder writes an image in one output format at a given lossy quality.
type Encoder interface {
	Extension() string
	Encode(w io.Writer, img image.Image, quality int) error
}

// EncoderRegistry maps format names ("webp", "jpeg") to encoders
type EncoderRegistry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewEncoderRegistry creates an empty registry
func NewEncoderRegistry() *EncoderRegistry {
	return &EncoderRegistry{
		encoders: make(map[string]Encoder),
	}
}

// Register adds an encoder under the given format name
func (r *EncoderRegistry) Register(format string, encoder Encoder) error {
	if format == "" {
		return fmt.Errorf("encoder format cannot be empty")
	}
	if encoder == nil {
		return fmt.Errorf("encoder cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.encoders[format]; exists {
		return fmt.Errorf("encoder %s is already registered", format)
	}
	r.encoders[format] = encoder
	return nil
}

// Get returns the encoder for format, or ErrEncoderUnavailable
func (r *EncoderRegistry) Get(format string) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	encoder, exists := r.encoders[format]
	if !exists {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrEncoderUnavailable, format, r.namesLocked())
	}
	return encoder, nil
}

// IsRegistered checks if an encoder for format is registered
func (r *EncoderRegistry) IsRegistered(format string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.encoders[format]
	return exists
}

// GetRegisteredNames returns the registered format names in sorted order
func (r *EncoderRegistry) GetRegisteredNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *EncoderRegistry) namesLocked() []string {
	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the encoders compiled into this binary
var DefaultRegistry = NewEncoderRegistry()

type jpegEncoder struct{}

func (jpegEncoder) Extension() string { return "jpg" }

func (jpegEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
}

func init() {
	if err := DefaultRegistry.Register("jpeg", jpegEncoder{}); err != nil {
		panic(fmt.Sprintf("failed to register jpeg encoder: %v", err))
	}
}
