package core

import (
	"fmt"
	"strings"

	"github.com/jo-hoe/storefront/internal/backend/database"
	"github.com/jo-hoe/storefront/internal/backend/theme"
)

type BannerForm struct {
	Title       string `form:"titulo" validate:"max=200"`
	Subtitle    string `form:"descricao1" validate:"max=500"`
	Caption     string `form:"descricao2" validate:"max=500"`
	ShowOverlay string `form:"show_overlay"`
	ShowButton  string `form:"show_button"`
}

type ContactForm struct {
	WhatsApp  string `form:"whatsapp" validate:"required,max=40"`
	Instagram string `form:"instagram" validate:"max=200"`
	Address   string `form:"endereco" validate:"max=500"`
}

type FAQForm struct {
	Question string `form:"pergunta" validate:"required,max=500"`
	Answer   string `form:"resposta" validate:"required,max=5000"`
}

type CategoryForm struct {
	Name string `form:"nome" validate:"required,max=100"`
}

func checkbox(value string) bool {
	return value == "on" || value == "1" || value == "true"
}

func (service *CoreService) AdminBanners() ([]BannerView, error) {
	banners, err := service.databaseService.ListBanners(0)
	if err != nil {
		return nil, err
	}
	return service.bannerViews(banners, productPreference), nil
}

// CreateBanner stores a hero banner; its image gets the hero width ladder.
func (service *CoreService) CreateBanner(form *BannerForm, upload *Upload) (int64, error) {
	b := &database.HeroBanner{
		Title:       strings.TrimSpace(form.Title),
		Subtitle:    strings.TrimSpace(form.Subtitle),
		Caption:     strings.TrimSpace(form.Caption),
		ShowOverlay: checkbox(form.ShowOverlay),
		ShowButton:  checkbox(form.ShowButton),
	}
	if upload != nil {
		image, variants, err := service.storeUpload(service.bannerTarget(), upload)
		if err != nil {
			return 0, err
		}
		b.Image, b.ImageVariants = image, variants
	}
	id, err := service.databaseService.CreateBanner(b)
	if err != nil {
		return 0, fmt.Errorf("createBanner: %w", err)
	}
	return id, nil
}

func (service *CoreService) DeleteBanner(id int64) error {
	return service.databaseService.DeleteBanner(id)
}

func (service *CoreService) Categories() ([]*database.Category, error) {
	return service.databaseService.ListCategories()
}

func (service *CoreService) CreateCategory(form *CategoryForm) (int64, error) {
	return service.databaseService.CreateCategory(strings.TrimSpace(form.Name))
}

func (service *CoreService) DeleteCategory(id int64) error {
	return service.databaseService.DeleteCategory(id)
}

func (service *CoreService) Contact() (*database.Contact, error) {
	return service.contactOrNil()
}

func (service *CoreService) SaveContact(form *ContactForm) error {
	return service.databaseService.SaveContact(&database.Contact{
		WhatsApp:  strings.TrimSpace(form.WhatsApp),
		Instagram: strings.TrimSpace(form.Instagram),
		Address:   strings.TrimSpace(form.Address),
	})
}

func (service *CoreService) CreateFAQ(form *FAQForm) (int64, error) {
	return service.databaseService.CreateFAQ(strings.TrimSpace(form.Question), strings.TrimSpace(form.Answer))
}

func (service *CoreService) DeleteFAQ(id int64) error {
	return service.databaseService.DeleteFAQ(id)
}

func (service *CoreService) Theme() theme.Theme {
	return service.themeStore.Current()
}

// SaveTheme applies the posted keys over the current theme. Keys missing
// from values keep their current value.
func (service *CoreService) SaveTheme(values map[string]string) (theme.Theme, error) {
	updated := service.themeStore.Current().With(values)
	if err := service.themeStore.Save(updated); err != nil {
		return service.themeStore.Current(), err
	}
	return updated, nil
}
