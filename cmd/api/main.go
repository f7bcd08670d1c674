package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wanderdeals/deals-api/internal/config"
	"github.com/wanderdeals/deals-api/internal/handler"
	"github.com/wanderdeals/deals-api/internal/repository"
	"github.com/wanderdeals/deals-api/internal/service"
	"github.com/wanderdeals/deals-api/internal/validator"
	"github.com/wanderdeals/deals-api/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Travel Deals API",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit (explicit, prevents large payloads)
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator
	validate := validator.New()

	// Repositories
	couponRepo := repository.NewCouponRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	brandRepo := repository.NewBrandRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)

	// Services (layered architecture)
	resolver := service.NewEntityResolver(catalogRepo)
	couponService := service.NewCouponService(couponRepo, resolver)
	brandService := service.NewBrandService(brandRepo)
	categoryService := service.NewCategoryService(categoryRepo)

	// Handlers
	couponHandler := handler.NewCouponHandler(couponService, validate)
	brandHandler := handler.NewBrandHandler(brandService, validate)
	categoryHandler := handler.NewCategoryHandler(categoryService, validate)
	entityHandler := handler.NewEntityHandler(resolver)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	// Coupon routes. The destinations route must be registered before the
	// :id routes so "destinations" is not parsed as an ID.
	app.Get("/api/coupons/destinations", couponHandler.ListDestinations)
	app.Post("/api/coupons", couponHandler.CreateCoupon)
	app.Get("/api/coupons", couponHandler.ListCoupons)
	app.Get("/api/coupons/:id", couponHandler.GetCoupon)
	app.Put("/api/coupons/:id", couponHandler.UpdateCoupon)
	app.Delete("/api/coupons/:id", couponHandler.DeleteCoupon)
	app.Patch("/api/coupons/:id/showcase", couponHandler.ToggleShowcase)
	app.Put("/api/coupons/:id/entities", couponHandler.AssignEntities)

	// Brand routes
	app.Get("/api/brands", brandHandler.ListBrands)
	app.Post("/api/brands", brandHandler.CreateBrand)
	app.Get("/api/brands/:id", brandHandler.GetBrand)
	app.Put("/api/brands/:id", brandHandler.UpdateBrand)
	app.Delete("/api/brands/:id", brandHandler.DeleteBrand)

	// Category routes
	app.Get("/api/categories", categoryHandler.ListCategories)
	app.Post("/api/categories", categoryHandler.CreateCategory)
	app.Delete("/api/categories/:id", categoryHandler.DeleteCategory)

	// Catalog entity picker for the admin assignment UI
	app.Get("/api/entities/:type", entityHandler.ListEntities)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
