package common

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrEmptyFilename     = errors.New("filename is empty after sanitizing")
	ErrUnsupportedUpload = errors.New("unsupported image type")
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".jfif": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".svg":  true,
}

// SafeFilename folds accents, turns whitespace into underscores and drops
// everything outside [A-Za-z0-9._-]. Directory parts and leading dots are
// removed.
func SafeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(folded), "_") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	safe := strings.Trim(b.String(), "._")
	if safe == "" {
		return "", ErrEmptyFilename
	}
	return safe, nil
}

// SafeImageFilename sanitizes name and requires an image extension.
func SafeImageFilename(name string) (string, error) {
	safe, err := SafeFilename(name)
	if err != nil {
		return "", err
	}
	if !imageExtensions[strings.ToLower(filepath.Ext(safe))] {
		return "", ErrUnsupportedUpload
	}
	if strings.TrimSuffix(safe, filepath.Ext(safe)) == "" {
		return "", ErrEmptyFilename
	}
	return safe, nil
}

// BaseName strips the extension: "copo-azul.png" -> "copo-azul"
func BaseName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
