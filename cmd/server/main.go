package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jo-hoe/storefront/internal/backend/session"
	"github.com/jo-hoe/storefront/internal/common"
	"github.com/jo-hoe/storefront/internal/core"
	"github.com/jo-hoe/storefront/internal/frontend"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func getConfigPath() string {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	// Default to config.yaml in current working directory
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml")
}

func main() {
	// Load configuration
	configPath := getConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil {
		log.Printf("failed to load config from %s: %v", configPath, err)
		panic(err)
	}
	setupLogging(config.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	coreService := core.NewCoreService(config)
	sessions, err := session.NewStore(ctx, config.Session.Store, config.Session.TTL, session.RedisOptions{
		Addr:     config.Session.Redis.Addr,
		Password: config.Session.Redis.Password,
		DB:       config.Session.Redis.DB,
	})
	if err != nil {
		log.Printf("failed to initialize session store: %v", err)
		_ = coreService.Close()
		panic(err)
	}

	if err := coreService.WatchTheme(ctx); err != nil {
		log.Printf("theme file changes will not be picked up: %v", err)
	}

	server := defineServer(config)
	frontendService := frontend.NewFrontendService(config, coreService, sessions)
	frontendService.SetRoutes(server)

	portString := fmt.Sprintf(":%d", config.Port)

	// Start HTTP server in a goroutine to allow graceful shutdown
	go func() {
		if err := server.Start(portString); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := sessions.Close(); err != nil {
		log.Printf("session store close error: %v", err)
	}
	if err := coreService.Close(); err != nil {
		log.Printf("core service close error: %v", err)
	}
}

func setupLogging(level string) {
	logLevel, err := core.ParseLogLevel(level)
	if err != nil {
		log.Printf("invalid log level %q, using info: %v", level, err)
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func defineServer(config *core.ServiceConfig) *echo.Echo {
	e := echo.New()

	// Configure request logger to skip the probe endpoint
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/probe"
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRoutePath: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"route", v.RoutePath,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				slog.Error("request failed", append(attrs, "error", v.Error)...)
			} else {
				slog.Info("request", attrs...)
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", config.Uploads.MaxUploadMB)))
	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = &common.GenericEchoValidator{}

	return e
}
