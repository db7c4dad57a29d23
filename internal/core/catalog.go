package core

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/jo-hoe/storefront/internal/backend/database"
	"github.com/jo-hoe/storefront/internal/backend/theme"
)

// CatalogParams carries the raw query parameters of the public listing
type CatalogParams struct {
	Page       string
	PerPage    string
	CategoryID string
	Sort       string
}

type CatalogPage struct {
	Products   []ProductView
	Banners    []BannerView
	Contact    *database.Contact
	Categories []*database.Category
	Theme      theme.Theme

	Page       int
	PerPage    int
	Total      int
	TotalPages int
	CategoryID *int64
	Sort       database.ProductSort
}

func (p *CatalogPage) HasPrev() bool { return p.Page > 1 }

func (p *CatalogPage) HasNext() bool { return p.Page < p.TotalPages }

func (p *CatalogPage) PrevPage() int { return p.Page - 1 }

func (p *CatalogPage) NextPage() int { return p.Page + 1 }

// Pages lists every page number for the pager
func (p *CatalogPage) Pages() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// PageURL links to another page of the listing, keeping the filter, sort
// and page size.
func (p *CatalogPage) PageURL(page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(p.PerPage))
	q.Set("sort", string(p.Sort))
	if p.CategoryID != nil {
		q.Set("class_id", strconv.FormatInt(*p.CategoryID, 10))
	}
	return "/?" + q.Encode()
}

func (p *CatalogPage) SelectedCategory() int64 {
	if p.CategoryID == nil {
		return 0
	}
	return *p.CategoryID
}

type Dashboard struct {
	TotalProducts  int
	ActiveProducts int
	TotalBanners   int
	Contact        *database.Contact
	LatestProducts []ProductView
	LatestBanners  []BannerView
}

type normalizedCatalog struct {
	page       int
	perPage    int
	categoryID *int64
	sort       database.ProductSort
}

func (service *CoreService) normalizeCatalog(params CatalogParams) normalizedCatalog {
	n := normalizedCatalog{page: 1, perPage: service.config.Catalog.DefaultPerPage, sort: database.SortNewest}

	if perPage, err := strconv.Atoi(strings.TrimSpace(params.PerPage)); err == nil && perPage > 0 {
		n.perPage = min(perPage, service.config.Catalog.MaxPerPage)
	}
	// the offset (page-1)*perPage must stay representable
	if page, err := strconv.Atoi(strings.TrimSpace(params.Page)); err == nil && page > 0 {
		n.page = min(page, math.MaxInt/n.perPage)
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(params.CategoryID), 10, 64); err == nil && id > 0 {
		n.categoryID = &id
	}
	switch sort := database.ProductSort(params.Sort); sort {
	case database.SortPriceAsc, database.SortPriceDesc:
		n.sort = sort
	}
	return n
}

// Catalog assembles everything the public landing page shows
func (service *CoreService) Catalog(params CatalogParams) (*CatalogPage, error) {
	n := service.normalizeCatalog(params)

	products, total, err := service.databaseService.ListCatalog(database.ProductQuery{
		CategoryID: n.categoryID,
		Sort:       n.sort,
		Limit:      n.perPage,
		Offset:     (n.page - 1) * n.perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	banners, err := service.databaseService.ListBanners(0)
	if err != nil {
		return nil, fmt.Errorf("failed to load banners: %w", err)
	}
	contact, err := service.contactOrNil()
	if err != nil {
		return nil, err
	}
	categories, err := service.databaseService.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	return &CatalogPage{
		Products:   service.productViews(products),
		Banners:    service.bannerViews(banners, heroPreference),
		Contact:    contact,
		Categories: categories,
		Theme:      service.Theme(),
		Page:       n.page,
		PerPage:    n.perPage,
		Total:      total,
		TotalPages: (total + n.perPage - 1) / n.perPage,
		CategoryID: n.categoryID,
		Sort:       n.sort,
	}, nil
}

func (service *CoreService) FAQ() ([]*database.FAQ, error) {
	return service.databaseService.ListFAQ()
}

func (service *CoreService) Dashboard() (*Dashboard, error) {
	total, err := service.databaseService.CountProducts(false)
	if err != nil {
		return nil, err
	}
	active, err := service.databaseService.CountProducts(true)
	if err != nil {
		return nil, err
	}
	bannerCount, err := service.databaseService.CountBanners()
	if err != nil {
		return nil, err
	}
	contact, err := service.contactOrNil()
	if err != nil {
		return nil, err
	}
	latest, err := service.databaseService.LatestProducts(4)
	if err != nil {
		return nil, err
	}
	banners, err := service.databaseService.ListBanners(3)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalProducts:  total,
		ActiveProducts: active,
		TotalBanners:   bannerCount,
		Contact:        contact,
		LatestProducts: service.productViews(latest),
		LatestBanners:  service.bannerViews(banners, productPreference),
	}, nil
}

func (service *CoreService) contactOrNil() (*database.Contact, error) {
	contact, err := service.databaseService.GetContact()
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}
	return contact, nil
}
