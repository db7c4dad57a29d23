package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jo-hoe/storefront/internal/backend/media"
	"github.com/jo-hoe/storefront/internal/common"
)

// Upload is an image file received from an admin form
type Upload struct {
	Filename string
	Content  io.Reader
}

type uploadTarget struct {
	dir     string
	ladder  []int
	prefer  []int
	context string
}

func (service *CoreService) productTarget() uploadTarget {
	return uploadTarget{
		dir:     service.config.Uploads.ProductDir,
		ladder:  service.config.Variants.ProductWidths,
		prefer:  productPreference,
		context: "product",
	}
}

func (service *CoreService) bannerTarget() uploadTarget {
	return uploadTarget{
		dir:     service.config.Uploads.BannerDir,
		ladder:  service.config.Variants.BannerWidths,
		prefer:  heroPreference,
		context: "banner",
	}
}

// storeUpload saves the upload under the target directory and derives its
// variants. When generation fails the raw upload becomes the only image and
// variants is nil. Errors are returned only when the upload itself cannot
// be accepted or saved.
func (service *CoreService) storeUpload(target uploadTarget, upload *Upload) (image *string, variants *string, err error) {
	filename, err := common.SafeImageFilename(upload.Filename)
	if err != nil {
		return nil, nil, fmt.Errorf("rejected upload %q: %w", upload.Filename, err)
	}

	fullPath := filepath.Join(target.dir, filename)
	if err := saveFile(fullPath, upload.Content); err != nil {
		return nil, nil, err
	}
	rawPath, err := relativeToStatic(service.config.Static.Dir, fullPath)
	if err != nil {
		return nil, nil, err
	}

	set, err := service.generator.Generate(fullPath, target.dir, common.BaseName(filename), target.ladder)
	if err != nil {
		attrs := []any{"record", target.context, "file", filename, "error", err}
		if errors.Is(err, media.ErrEncoderUnavailable) {
			slog.Warn("storeUpload: image variants unavailable, storing original upload", attrs...)
		} else {
			slog.Error("storeUpload: variant generation failed, storing original upload", attrs...)
		}
		return &rawPath, nil, nil
	}

	blob, err := set.Marshal()
	if err != nil {
		slog.Error("storeUpload: failed to serialize variants, storing original upload", "file", filename, "error", err)
		return &rawPath, nil, nil
	}
	def, _ := set.Preferred(target.prefer...)
	return &def, &blob, nil
}

func saveFile(fullPath string, content io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	dst, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", fullPath, err)
	}
	if _, err := io.Copy(dst, content); err != nil {
		_ = dst.Close()
		_ = os.Remove(fullPath)
		return fmt.Errorf("failed to write %s: %w", fullPath, err)
	}
	return dst.Close()
}
