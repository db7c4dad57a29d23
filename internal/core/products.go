package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jo-hoe/storefront/internal/backend/database"
	"github.com/jo-hoe/storefront/internal/common"
)

// ProductForm is the admin product form as posted
type ProductForm struct {
	Name        string `form:"nome" validate:"required,max=200"`
	Description string `form:"descricao" validate:"max=5000"`
	Price       string `form:"preco" validate:"required"`
	CategoryID  string `form:"class_id"`
}

func (f *ProductForm) apply(p *database.Product) error {
	price, err := common.ParsePrice(f.Price)
	if err != nil {
		return err
	}
	p.Name = strings.TrimSpace(f.Name)
	p.Description = strings.TrimSpace(f.Description)
	p.Price = price
	p.CategoryID = nil
	if id, err := strconv.ParseInt(strings.TrimSpace(f.CategoryID), 10, 64); err == nil && id > 0 {
		p.CategoryID = &id
	}
	return nil
}

func (service *CoreService) AdminProducts(term string, status string) ([]ProductView, database.ProductStatus, error) {
	s := database.ProductStatus(status)
	switch s {
	case database.StatusActive, database.StatusInactive, database.StatusAll:
	default:
		s = database.StatusActive
	}
	products, err := service.databaseService.SearchProducts(term, s)
	if err != nil {
		return nil, s, err
	}
	return service.productViews(products), s, nil
}

func (service *CoreService) GetProduct(id int64) (*ProductView, error) {
	p, err := service.databaseService.GetProduct(id)
	if err != nil {
		return nil, err
	}
	views := service.productViews([]*database.Product{p})
	return &views[0], nil
}

// CreateProduct stores a new active product. upload may be nil.
func (service *CoreService) CreateProduct(form *ProductForm, upload *Upload) (int64, error) {
	p := &database.Product{Active: true}
	if err := form.apply(p); err != nil {
		return 0, err
	}
	if upload != nil {
		image, variants, err := service.storeUpload(service.productTarget(), upload)
		if err != nil {
			return 0, err
		}
		p.Image, p.ImageVariants = image, variants
	}
	id, err := service.databaseService.CreateProduct(p)
	if err != nil {
		return 0, fmt.Errorf("createProduct: %w", err)
	}
	return id, nil
}

// UpdateProduct rewrites the product fields. Without an upload the current
// image and variants are kept; a new upload replaces both.
func (service *CoreService) UpdateProduct(id int64, form *ProductForm, upload *Upload) error {
	p, err := service.databaseService.GetProduct(id)
	if err != nil {
		return err
	}
	if err := form.apply(p); err != nil {
		return err
	}
	if upload != nil {
		image, variants, err := service.storeUpload(service.productTarget(), upload)
		if err != nil {
			return err
		}
		p.Image, p.ImageVariants = image, variants
	}
	return service.databaseService.UpdateProduct(p)
}

func (service *CoreService) ToggleProduct(id int64) error {
	return service.databaseService.ToggleProduct(id)
}

func (service *CoreService) DeleteProduct(id int64) error {
	return service.databaseService.DeleteProduct(id)
}
