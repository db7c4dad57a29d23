package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/storefront/internal/backend/database"
	"github.com/jo-hoe/storefront/internal/backend/media"
	"github.com/jo-hoe/storefront/internal/backend/theme"
)

const defaultWhatsApp = "5511999999999"

var (
	// productPreference picks the default image for product cards and admin thumbnails.
	productPreference = []int{768}
	// heroPreference picks the largest sensible default for public hero banners.
	heroPreference = []int{2560, 1920, 1440, 1024, 768, 480}
)

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	generator       *media.Generator
	resolver        media.AssetResolver
	themeStore      *theme.Store
}

func NewCoreService(config *ServiceConfig) *CoreService {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		slog.Error("failed to initialize database service", "error", err)
		panic(err)
	}
	if err := seed(databaseService, config); err != nil {
		_ = databaseService.Close()
		slog.Error("failed to seed database", "error", err)
		panic(err)
	}

	themeStore, err := theme.NewStore(config.Theme.Path)
	if err != nil {
		_ = databaseService.Close()
		slog.Error("failed to load theme", "path", config.Theme.Path, "error", err)
		panic(err)
	}

	generator := media.NewGenerator(config.Static.Dir, media.Options{
		Format:            config.Variants.Format,
		Quality:           config.Variants.Quality,
		SVGFallbackWidth:  config.Variants.SVGFallbackWidth,
		SVGFallbackHeight: config.Variants.SVGFallbackHeight,
	}, nil)
	if !generator.Available() {
		slog.Warn("image variants disabled: no encoder for configured format, uploads are stored unprocessed",
			"format", generator.Format(),
			"available", media.DefaultRegistry.GetRegisteredNames())
	}

	return &CoreService{
		config:          config,
		databaseService: databaseService,
		generator:       generator,
		resolver:        media.StaticResolver{Prefix: config.Static.URLPrefix},
		themeStore:      themeStore,
	}
}

func (service *CoreService) Config() *ServiceConfig {
	return service.config
}

// AssetURL resolves a path relative to the static root into a servable URL
func (service *CoreService) AssetURL(relativePath string) string {
	if relativePath == "" {
		return ""
	}
	return service.resolver.URL(relativePath)
}

// WatchTheme reloads the theme when its file changes until ctx is done.
func (service *CoreService) WatchTheme(ctx context.Context) error {
	return service.themeStore.Watch(ctx)
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

func seed(databaseService database.DatabaseService, config *ServiceConfig) error {
	if err := databaseService.EnsureDefaultAdmin(config.Admin.DefaultUsername, config.Admin.DefaultPassword); err != nil {
		return err
	}
	return databaseService.EnsureDefaultContact(defaultWhatsApp)
}
