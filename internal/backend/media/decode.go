package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decodeFile reads and decodes the source at path into an opaque NRGBA image.
// Data no raster decoder recognizes is tried as SVG, rasterized at its
// explicit size or at the fallback size when the root element carries none.
func decodeFile(path string, svgFallbackWidth, svgFallbackHeight int) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	// Raster decoders go first: a PNG or JPEG may carry "<svg" in its metadata.
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if errors.Is(err, image.ErrFormat) && isSVGData(data) {
		img, err = rasterizeSVG(data, svgFallbackWidth, svgFallbackHeight)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %s has empty bounds %v", ErrDecode, path, b)
	}

	slog.Debug("decodeFile: decoded source image",
		"path", path,
		"width", b.Dx(),
		"height", b.Dy(),
		"color_model", fmt.Sprintf("%T", img.ColorModel()))

	return flatten(img), nil
}

// flatten composites img over white so every encoder sees the same opaque RGB input.
func flatten(img image.Image) *image.NRGBA {
	src := imaging.Clone(img)
	bg := imaging.New(src.Bounds().Dx(), src.Bounds().Dy(), color.White)
	return imaging.Overlay(bg, src, image.Pt(0, 0), 1.0)
}

func rasterizeSVG(data []byte, fallbackWidth, fallbackHeight int) (image.Image, error) {
	w, h, ok := parseSvgExplicitSize(data)
	if !ok {
		if fallbackWidth <= 0 || fallbackHeight <= 0 {
			return nil, fmt.Errorf("SVG has no explicit size and no fallback size is configured")
		}
		w, h = fallbackWidth, fallbackHeight
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}

// isSVGData checks the first 4KB for an <svg> element or the SVG namespace.
func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte(`xmlns="http://www.w3.org/2000/svg"`)) ||
		bytes.Contains(header, []byte(`xmlns='http://www.w3.org/2000/svg'`))
}

// parseSvgExplicitSize reads width/height from the root <svg> tag. viewBox is
// not treated as a pixel size.
func parseSvgExplicitSize(data []byte) (int, int, bool) {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	s := strings.ToLower(string(data[:n]))
	i := strings.Index(s, "<svg")
	if i < 0 {
		return 0, 0, false
	}
	j := strings.Index(s[i:], ">")
	if j < 0 {
		j = len(s)
	} else {
		j = i + j
	}
	tag := s[i:j]

	w, wOk := parseNumericAttr(tag, "width")
	h, hOk := parseNumericAttr(tag, "height")
	if wOk && hOk {
		return w, h, true
	}
	return 0, 0, false
}

// parseNumericAttr extracts the leading integer of a quoted attribute value
// (width="123px" -> 123).
func parseNumericAttr(tag, attr string) (int, bool) {
	pos := -1
	for _, key := range []string{" " + attr + "=", "\t" + attr + "=", "\n" + attr + "="} {
		if p := strings.Index(tag, key); p >= 0 {
			pos = p + len(key)
			break
		}
	}
	if pos < 0 || pos >= len(tag) {
		return 0, false
	}

	quote := tag[pos]
	if quote != '"' && quote != '\'' {
		return 0, false
	}
	val := tag[pos+1:]
	if end := strings.IndexByte(val, quote); end >= 0 {
		val = val[:end]
	}

	num := 0
	found := false
	for i := 0; i < len(val); i++ {
		ch := val[i]
		if ch >= '0' && ch <= '9' {
			found = true
			num = num*10 + int(ch-'0')
		} else if found || ch != ' ' {
			break
		}
	}
	if !found || num <= 0 {
		return 0, false
	}
	return num, true
}
