//go:build cgo

package media

import (
	"fmt"
	"image"
	"io"

	"github.com/chai2010/webp"
)

type webpEncoder struct{}

func (webpEncoder) Extension() string { return "webp" }

func (webpEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: float32(quality)})
}

func init() {
	if err := DefaultRegistry.Register("webp", webpEncoder{}); err != nil {
		panic(fmt.Sprintf("failed to register webp encoder: %v", err))
	}
}
