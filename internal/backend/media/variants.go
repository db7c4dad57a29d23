package media

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// Options configures a Generator
type Options struct {
	// Format selects the encoder from the registry, e.g. "webp" or "jpeg".
	Format            string
	Quality           int
	SVGFallbackWidth  int
	SVGFallbackHeight int
}

// Generator derives resized renditions of uploaded images. It holds no
// mutable state and is safe for concurrent use.
type Generator struct {
	staticRoot string
	options    Options
	registry   *EncoderRegistry
}

// NewGenerator creates a generator whose output paths are recorded relative
// to staticRoot. A nil registry means DefaultRegistry.
func NewGenerator(staticRoot string, options Options, registry *EncoderRegistry) *Generator {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &Generator{
		staticRoot: staticRoot,
		options:    options,
		registry:   registry,
	}
}

// Format returns the configured output format name
func (g *Generator) Format() string {
	return g.options.Format
}

// Available reports whether the configured output format can be encoded
func (g *Generator) Available() bool {
	return g.registry.IsRegistered(g.options.Format)
}

// Generate decodes sourcePath once and writes one re-encoded file per
// effective width of ladder into destinationDir, named
// {baseName}-{width}.{ext}. It never upscales. On any error no mapping is
// returned and every file written by this call is removed. Files are moved
// into place in ascending width order; a move failing partway also removes
// the renditions already moved, so same-named files of an earlier upload
// that those had replaced are gone as well.
func (g *Generator) Generate(sourcePath, destinationDir, baseName string, ladder []int) (VariantSet, error) {
	start := time.Now()

	if err := ValidateLadder(ladder); err != nil {
		return nil, err
	}
	if g.options.Quality < 1 || g.options.Quality > 100 {
		return nil, fmt.Errorf("quality must be within 1..100, got %d", g.options.Quality)
	}
	if baseName == "" || strings.ContainsAny(baseName, `/\`) {
		return nil, fmt.Errorf("invalid base name %q", baseName)
	}
	relDir, err := g.relativeDir(destinationDir)
	if err != nil {
		return nil, err
	}
	encoder, err := g.registry.Get(g.options.Format)
	if err != nil {
		return nil, err
	}

	src, err := decodeFile(sourcePath, g.options.SVGFallbackWidth, g.options.SVGFallbackHeight)
	if err != nil {
		slog.Error("Generate: failed to decode source", "source", sourcePath, "error", err)
		return nil, err
	}
	srcWidth := src.Bounds().Dx()
	srcHeight := src.Bounds().Dy()

	if err := os.MkdirAll(destinationDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory %s: %w", destinationDir, err)
	}

	// All renditions are encoded to temp files first and moved into place only
	// once the whole ladder succeeded.
	pending := make([]pendingVariant, 0, len(ladder))
	discard := func() {
		for _, p := range pending {
			_ = os.Remove(p.tmp)
		}
	}

	variants := make(VariantSet, len(ladder))
	for _, target := range ladder {
		width, height := EffectiveSize(target, srcWidth, srcHeight)
		if _, done := variants[width]; done {
			slog.Debug("Generate: ladder entry collapses onto existing width",
				"target_width", target, "effective_width", width)
			continue
		}

		var out image.Image = src
		if width != srcWidth {
			out = imaging.Resize(src, width, height, imaging.Lanczos)
		}

		name := fmt.Sprintf("%s-%d.%s", baseName, width, encoder.Extension())
		finalPath := filepath.Join(destinationDir, name)
		tmp, err := encodeToTemp(destinationDir, name, encoder, out, g.options.Quality)
		if err != nil {
			discard()
			slog.Error("Generate: failed to encode variant",
				"source", sourcePath, "width", width, "error", err)
			return nil, err
		}
		pending = append(pending, pendingVariant{tmp: tmp, final: finalPath})
		variants[width] = path.Join(relDir, name)
	}

	if err := moveIntoPlace(pending); err != nil {
		slog.Error("Generate: failed to move variants into place", "source", sourcePath, "error", err)
		return nil, err
	}

	slog.Info("Generate: variants written",
		"source", sourcePath,
		"source_width", srcWidth,
		"source_height", srcHeight,
		"format", g.options.Format,
		"widths", variants.Widths(),
		"duration_ms", time.Since(start).Milliseconds())

	return variants, nil
}

// EffectiveSize caps target at the source width and derives the height that
// keeps the source aspect ratio.
func EffectiveSize(target, srcWidth, srcHeight int) (int, int) {
	width := target
	if width > srcWidth {
		width = srcWidth
	}
	height := int(math.Round(float64(width) * float64(srcHeight) / float64(srcWidth)))
	if height < 1 {
		height = 1
	}
	return width, height
}

// ValidateLadder requires a non-empty, strictly ascending list of positive widths.
func ValidateLadder(ladder []int) error {
	if len(ladder) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidLadder)
	}
	for i, w := range ladder {
		if w <= 0 {
			return fmt.Errorf("%w: width at index %d must be positive, got %d", ErrInvalidLadder, i, w)
		}
		if i > 0 && w <= ladder[i-1] {
			return fmt.Errorf("%w: widths must be strictly ascending, %d follows %d", ErrInvalidLadder, w, ladder[i-1])
		}
	}
	return nil
}

func (g *Generator) relativeDir(destinationDir string) (string, error) {
	root, err := filepath.Abs(g.staticRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve static root %s: %w", g.staticRoot, err)
	}
	dest, err := filepath.Abs(destinationDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve destination %s: %w", destinationDir, err)
	}
	rel, err := filepath.Rel(root, dest)
	if err != nil {
		return "", fmt.Errorf("destination %s is not below static root %s: %w", destinationDir, g.staticRoot, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("destination %s is outside static root %s", destinationDir, g.staticRoot)
	}
	return filepath.ToSlash(rel), nil
}

type pendingVariant struct {
	tmp   string
	final string
}

// moveIntoPlace renames every temp file onto its final path in order. When a
// rename fails the files already moved and the remaining temp files are
// removed.
func moveIntoPlace(pending []pendingVariant) error {
	for i, p := range pending {
		if err := os.Rename(p.tmp, p.final); err != nil {
			for _, moved := range pending[:i] {
				_ = os.Remove(moved.final)
			}
			for _, rest := range pending[i:] {
				_ = os.Remove(rest.tmp)
			}
			return fmt.Errorf("failed to move variant into place %s: %w", p.final, err)
		}
	}
	return nil
}

func encodeToTemp(dir, name string, encoder Encoder, img image.Image, quality int) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmp := f.Name()
	if err := encoder.Encode(f, img, quality); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to set permissions on %s: %w", name, err)
	}
	return tmp, nil
}
