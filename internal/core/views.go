package core

import (
	"log/slog"

	"github.com/jo-hoe/storefront/internal/backend/database"
	"github.com/jo-hoe/storefront/internal/backend/media"
	"github.com/jo-hoe/storefront/internal/common"
)

// Image is what templates need to render an <img>: the default URL and an
// optional srcset.
type Image struct {
	URL    string
	SrcSet string
}

func (i Image) Present() bool {
	return i.URL != ""
}

type ProductView struct {
	*database.Product
	Picture   Image
	PriceText string
}

type BannerView struct {
	*database.HeroBanner
	Picture Image
}

// resolveImage expands a stored image pair. A variant blob that does not
// parse is logged and the raw image path is used without a srcset.
func (service *CoreService) resolveImage(record string, id int64, raw, variants *string, prefer []int) Image {
	var img Image
	if raw != nil && *raw != "" {
		img.URL = service.resolver.URL(*raw)
	}
	if variants == nil || *variants == "" {
		return img
	}

	set, err := media.ParseVariantSet(*variants)
	if err != nil {
		slog.Warn("resolveImage: ignoring malformed image variants", "record", record, "id", id, "error", err)
		return img
	}
	if def, ok := set.Preferred(prefer...); ok {
		img.URL = service.resolver.URL(def)
	}
	img.SrcSet = media.BuildSourceSet(set, service.resolver)
	return img
}

func (service *CoreService) productViews(products []*database.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			Product:   p,
			Picture:   service.resolveImage("product", p.ID, p.Image, p.ImageVariants, productPreference),
			PriceText: common.FormatPrice(p.Price),
		})
	}
	return views
}

func (service *CoreService) bannerViews(banners []*database.HeroBanner, prefer []int) []BannerView {
	views := make([]BannerView, 0, len(banners))
	for _, b := range banners {
		views = append(views, BannerView{
			HeroBanner: b,
			Picture:    service.resolveImage("banner", b.ID, b.Image, b.ImageVariants, prefer),
		})
	}
	return views
}
