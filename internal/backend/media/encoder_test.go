package media

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"testing"
)

func TestEncoderRegistry_Register(t *testing.T) {
	r := NewEncoderRegistry()

	if err := r.Register("", jpegEncoder{}); err == nil {
		t.Error("expected error for empty format")
	}
	if err := r.Register("jpeg", nil); err == nil {
		t.Error("expected error for nil encoder")
	}
	if err := r.Register("jpeg", jpegEncoder{}); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := r.Register("jpeg", jpegEncoder{}); err == nil {
		t.Error("expected error for duplicate registration")
	}
	if !r.IsRegistered("jpeg") {
		t.Error("expected jpeg to be registered")
	}
}

func TestEncoderRegistry_GetUnknown(t *testing.T) {
	r := NewEncoderRegistry()
	_, err := r.Get("avif")
	if !errors.Is(err, ErrEncoderUnavailable) {
		t.Fatalf("expected ErrEncoderUnavailable, got %v", err)
	}
}

func TestEncoderRegistry_GetRegisteredNamesSorted(t *testing.T) {
	r := NewEncoderRegistry()
	for _, name := range []string{"webp", "jpeg", "avif"} {
		if err := r.Register(name, jpegEncoder{}); err != nil {
			t.Fatalf("Register(%s) error: %v", name, err)
		}
	}
	names := r.GetRegisteredNames()
	expected := []string{"avif", "jpeg", "webp"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("index %d: expected %q, got %q", i, expected[i], names[i])
		}
	}
}

func TestDefaultRegistry_HasJPEG(t *testing.T) {
	enc, err := DefaultRegistry.Get("jpeg")
	if err != nil {
		t.Fatalf("expected jpeg encoder in DefaultRegistry: %v", err)
	}
	if enc.Extension() != "jpg" {
		t.Errorf("expected extension jpg, got %q", enc.Extension())
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 4)), 70); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if cfg.Width != 8 || cfg.Height != 4 {
		t.Errorf("expected 8x4, got %dx%d", cfg.Width, cfg.Height)
	}
}
