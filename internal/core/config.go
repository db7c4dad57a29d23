package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort       = 5001
	secretKeyEnv      = "STOREFRONT_SECRET_KEY"
	environmentEnv    = "STOREFRONT_ENV"
	productionEnvName = "production"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type Static struct {
	Dir       string `yaml:"dir"`
	URLPrefix string `yaml:"urlPrefix"`
}

type Uploads struct {
	ProductDir  string `yaml:"productDir"`
	BannerDir   string `yaml:"bannerDir"`
	MaxUploadMB int    `yaml:"maxUploadMB"`
}

type Variants struct {
	Format            string `yaml:"format"`
	Quality           int    `yaml:"quality"`
	ProductWidths     []int  `yaml:"productWidths"`
	BannerWidths      []int  `yaml:"bannerWidths"`
	SVGFallbackWidth  int    `yaml:"svgFallbackWidth"`
	SVGFallbackHeight int    `yaml:"svgFallbackHeight"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Session struct {
	Store string        `yaml:"store"`
	TTL   time.Duration `yaml:"ttl"`
	Redis Redis         `yaml:"redis"`
}

type Theme struct {
	Path string `yaml:"path"`
}

type Admin struct {
	DefaultUsername string `yaml:"defaultUsername"`
	DefaultPassword string `yaml:"defaultPassword"`
}

type Catalog struct {
	DefaultPerPage int `yaml:"defaultPerPage"`
	MaxPerPage     int `yaml:"maxPerPage"`
}

type ServiceConfig struct {
	Port     int      `yaml:"port"`
	LogLevel string   `yaml:"logLevel"`
	Database Database `yaml:"database"`
	Static   Static   `yaml:"static"`
	Uploads  Uploads  `yaml:"uploads"`
	Variants Variants `yaml:"variants"`
	Session  Session  `yaml:"session"`
	Theme    Theme    `yaml:"theme"`
	Admin    Admin    `yaml:"admin"`
	Catalog  Catalog  `yaml:"catalog"`

	// Filled from the environment only.
	SecretKey  string `yaml:"-"`
	Production bool   `yaml:"-"`
}

// LoadConfig loads a .env file next to the working directory when present,
// then the YAML file at configPath, fills defaults, applies environment
// overrides and validates the result.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config ServiceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.SetDefaults()
	config.applyEnvironment(os.Getenv)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return &config, nil
}

// SetDefaults fills every omitted field with its default
func (c *ServiceConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.ConnectionString == "" {
		c.Database.ConnectionString = "database.db"
	}
	if c.Static.Dir == "" {
		c.Static.Dir = "static"
	}
	if c.Static.URLPrefix == "" {
		c.Static.URLPrefix = "/static"
	}
	if c.Uploads.ProductDir == "" {
		c.Uploads.ProductDir = "static/uploads/produtos"
	}
	if c.Uploads.BannerDir == "" {
		c.Uploads.BannerDir = "static/uploads/hero"
	}
	if c.Uploads.MaxUploadMB == 0 {
		c.Uploads.MaxUploadMB = 16
	}
	if c.Variants.Format == "" {
		c.Variants.Format = "webp"
	}
	if c.Variants.Quality == 0 {
		c.Variants.Quality = 85
	}
	if len(c.Variants.ProductWidths) == 0 {
		c.Variants.ProductWidths = []int{480, 768, 1024, 1440, 1920, 2560}
	}
	if len(c.Variants.BannerWidths) == 0 {
		c.Variants.BannerWidths = []int{480, 768, 1024, 1440, 1920, 2560}
	}
	if c.Variants.SVGFallbackWidth == 0 {
		c.Variants.SVGFallbackWidth = 1024
	}
	if c.Variants.SVGFallbackHeight == 0 {
		c.Variants.SVGFallbackHeight = 1024
	}
	if c.Session.Store == "" {
		c.Session.Store = "memory"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 12 * time.Hour
	}
	if c.Theme.Path == "" {
		c.Theme.Path = "config/theme.json"
	}
	if c.Admin.DefaultUsername == "" {
		c.Admin.DefaultUsername = "admin"
	}
	if c.Admin.DefaultPassword == "" {
		c.Admin.DefaultPassword = "admin123"
	}
	if c.Catalog.DefaultPerPage == 0 {
		c.Catalog.DefaultPerPage = 12
	}
	if c.Catalog.MaxPerPage == 0 {
		c.Catalog.MaxPerPage = 60
	}
}

// applyEnvironment lets the deployment override the file. An empty or
// invalid PORT keeps the configured port.
func (c *ServiceConfig) applyEnvironment(getenv func(string) string) {
	if raw := strings.TrimSpace(getenv("PORT")); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 && port < 65536 {
			c.Port = port
		} else {
			slog.Warn("ignoring invalid PORT", "value", raw, "port", c.Port)
		}
	}
	if secret := getenv(secretKeyEnv); secret != "" {
		c.SecretKey = secret
	}
	c.Production = getenv(environmentEnv) == productionEnvName
}

func (c *ServiceConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Database.Type != "sqlite" {
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Variants.Quality < 1 || c.Variants.Quality > 100 {
		return fmt.Errorf("variants.quality must be within 1..100, got %d", c.Variants.Quality)
	}
	if err := validateLadder("variants.productWidths", c.Variants.ProductWidths); err != nil {
		return err
	}
	if err := validateLadder("variants.bannerWidths", c.Variants.BannerWidths); err != nil {
		return err
	}
	if c.Uploads.MaxUploadMB < 0 {
		return fmt.Errorf("uploads.maxUploadMB must not be negative")
	}
	for name, dir := range map[string]string{"uploads.productDir": c.Uploads.ProductDir, "uploads.bannerDir": c.Uploads.BannerDir} {
		if _, err := relativeToStatic(c.Static.Dir, dir); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Session.Redis.Addr == "" {
			return fmt.Errorf("session.redis.addr is required for the redis store")
		}
	default:
		return fmt.Errorf("unsupported session store: %s", c.Session.Store)
	}
	if c.Catalog.DefaultPerPage < 1 || c.Catalog.MaxPerPage < c.Catalog.DefaultPerPage {
		return fmt.Errorf("catalog.defaultPerPage must be >= 1 and <= catalog.maxPerPage")
	}
	if c.Production && c.SecretKey == "" {
		return fmt.Errorf("%s must be set in production", secretKeyEnv)
	}
	return nil
}

func validateLadder(name string, widths []int) error {
	for i, w := range widths {
		if w <= 0 {
			return fmt.Errorf("%s: width at index %d must be positive", name, i)
		}
		if i > 0 && w <= widths[i-1] {
			return fmt.Errorf("%s: widths must be strictly ascending", name)
		}
	}
	return nil
}

// relativeToStatic returns p relative to the static root in slash form, or an
// error when p is not below it.
func relativeToStatic(staticDir, p string) (string, error) {
	root, err := filepath.Abs(staticDir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not below static dir %s", p, staticDir)
	}
	return filepath.ToSlash(rel), nil
}

func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
}
