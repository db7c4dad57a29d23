package database

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("record not found")

// Product is a catalog row. Image is the default image path relative to the
// static root; ImageVariants is the serialized width->path blob and stays nil
// when the upload has no derived renditions.
type Product struct {
	ID            int64           `db:"id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price_cents"`
	Image         *string         `db:"image"`
	ImageVariants *string         `db:"image_variants"`
	CategoryID    *int64          `db:"category_id"`
	Active        bool            `db:"active"`
}

type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type HeroBanner struct {
	ID            int64   `db:"id"`
	Title         string  `db:"title"`
	Subtitle      string  `db:"subtitle"`
	Caption       string  `db:"caption"`
	Image         *string `db:"image"`
	ImageVariants *string `db:"image_variants"`
	ShowOverlay   bool    `db:"show_overlay"`
	ShowButton    bool    `db:"show_button"`
}

type Contact struct {
	ID        int64  `db:"id"`
	WhatsApp  string `db:"whatsapp"`
	Instagram string `db:"instagram"`
	Address   string `db:"address"`
}

type FAQ struct {
	ID       int64  `db:"id"`
	Question string `db:"question"`
	Answer   string `db:"answer"`
}

type Admin struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

// ProductSort selects the catalog ordering
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
)

// ProductStatus filters the admin product list
type ProductStatus string

const (
	StatusActive   ProductStatus = "ativos"
	StatusInactive ProductStatus = "inativos"
	StatusAll      ProductStatus = "todos"
)

// ProductQuery describes one page of the public catalog. Only active
// products are returned.
type ProductQuery struct {
	CategoryID *int64
	Sort       ProductSort
	Limit      int
	Offset     int
}
