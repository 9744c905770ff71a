package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/cryptonews/internal/api"
	"github.com/bilgisen/cryptonews/internal/cache"
	"github.com/bilgisen/cryptonews/internal/config"
	"github.com/bilgisen/cryptonews/internal/feed"
	"github.com/bilgisen/cryptonews/internal/logger"
	"github.com/bilgisen/cryptonews/internal/middleware"
	"github.com/bilgisen/cryptonews/internal/news"
	"github.com/bilgisen/cryptonews/internal/proxy"
	"github.com/bilgisen/cryptonews/internal/rssout"
	"github.com/bilgisen/cryptonews/internal/scrape"
	"github.com/bilgisen/cryptonews/internal/sitemap"
	"github.com/bilgisen/cryptonews/internal/views"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger; an empty LOG_FILE means stdout
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting crypto news server...")

	// Pick the cache backend: in-memory by default, redis when configured
	var store cache.Store
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis cache")
		}
		store = redisStore
		log.Info().Msg("Using redis cache backend")
	} else {
		store = cache.NewMemoryStore()
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing cache store")
		}
	}()

	// Wire the aggregation core and its collaborators
	client := feed.NewClient(cfg.FeedTimeout)
	aggregator := news.NewAggregator(client, feed.Feeds, store, cfg.CacheTTL)
	contentProxy := proxy.New(aggregator, cfg.ProxyTimeout, cfg.MaxRedirects)
	scraper := scrape.NewScraper(cfg.ProxyTimeout)
	counter := views.NewCounter()
	sitemapGen := sitemap.NewGenerator(aggregator, store, cfg.CacheTTL, cfg.SiteURL)
	rssExport := rssout.NewExporter(aggregator, cfg.SiteURL)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// Serve the front end
	app.Static("/", cfg.StaticDir)

	// Setup API routes
	handlers := api.NewHandlers(aggregator, contentProxy, scraper, counter, sitemapGen, rssExport)
	api.SetupRoutes(app, handlers)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
