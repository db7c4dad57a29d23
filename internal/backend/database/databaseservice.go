package database

import "database/sql"

type DatabaseService interface {
	// CreateDatabase applies pending schema migrations.
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	ListCatalog(query ProductQuery) ([]*Product, int, error)
	SearchProducts(term string, status ProductStatus) ([]*Product, error)
	LatestProducts(limit int) ([]*Product, error)
	GetProduct(id int64) (*Product, error)
	CreateProduct(product *Product) (int64, error)
	UpdateProduct(product *Product) error
	ToggleProduct(id int64) error
	DeleteProduct(id int64) error
	CountProducts(activeOnly bool) (int, error)

	ListCategories() ([]*Category, error)
	CreateCategory(name string) (int64, error)
	DeleteCategory(id int64) error

	// ListBanners returns banners newest first; limit <= 0 means all.
	ListBanners(limit int) ([]*HeroBanner, error)
	CreateBanner(banner *HeroBanner) (int64, error)
	DeleteBanner(id int64) error
	CountBanners() (int, error)

	GetContact() (*Contact, error)
	SaveContact(contact *Contact) error
	EnsureDefaultContact(whatsapp string) error

	ListFAQ() ([]*FAQ, error)
	CreateFAQ(question, answer string) (int64, error)
	DeleteFAQ(id int64) error

	GetAdminByUsername(username string) (*Admin, error)
	FirstAdmin() (*Admin, error)
	VerifyAdminPassword(username, password string) (*Admin, error)
	SetAdminPassword(username, password string) error
	EnsureDefaultAdmin(username, password string) error
}
