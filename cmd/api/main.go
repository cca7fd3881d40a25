package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offerfinder/internal/cache"
	"github.com/GTDGit/offerfinder/internal/config"
	"github.com/GTDGit/offerfinder/internal/cost"
	"github.com/GTDGit/offerfinder/internal/database"
	"github.com/GTDGit/offerfinder/internal/handler"
	"github.com/GTDGit/offerfinder/internal/metrics"
	"github.com/GTDGit/offerfinder/internal/middleware"
	"github.com/GTDGit/offerfinder/internal/repository"
	"github.com/GTDGit/offerfinder/internal/service"
	"github.com/GTDGit/offerfinder/internal/worker"
)

// main is the application entrypoint for the offer finder API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting offerfinder api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB, cfg.DB.MigrationsPath); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis. The search cache is optional: without Redis every
	// search goes to the database.
	var cacheStore cache.Store
	var cachePinger handler.CachePinger
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable - search cache disabled")
	} else {
		defer redisClient.Close()
		cacheStore = redisClient
		cachePinger = redisClient
		log.Info().Msg("redis connected successfully")
	}

	m := metrics.New()

	// 4. Initialize repositories
	offerRepo := repository.NewOfferRepository(db, cfg.Search.QueryTimeout)
	referenceRepo := repository.NewReferenceRepository(db)
	addonRepo := repository.NewAddOnRepository(db)

	// 5. Load the reference catalog before serving traffic
	referenceSvc := service.NewReferenceService(referenceRepo)
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = referenceSvc.Refresh(bootCtx)
	bootCancel()
	m.RefreshResult(err == nil)
	if err != nil {
		log.Error().Err(err).Msg("reference catalog load failed")
		fmt.Fprintf(os.Stderr, "reference catalog load failed: %v\n", err)
		os.Exit(1)
	}

	// 6. Initialize services
	searchCache := cache.NewSearchCache(cacheStore, cfg.Search.CacheTTL)
	searchSvc := service.NewOfferSearchService(offerRepo, referenceSvc, searchCache, m, cfg.Search)
	offerSvc := service.NewOfferService(offerRepo, addonRepo, referenceRepo, referenceSvc)
	costSvc := service.NewCostService(offerRepo, addonRepo, cost.Policy{
		HorizonMonths:      cfg.Cost.HorizonMonths,
		RequiredPlanMonths: cfg.Cost.RequiredPlanMonths,
		PriceUnit:          cfg.Cost.PriceUnit,
	})

	// 7. Initialize handlers
	handlers := &handler.Handlers{
		Health:    handler.NewHealthHandler(db, cachePinger, referenceSvc),
		Offer:     handler.NewOfferHandler(searchSvc, offerSvc, costSvc),
		Reference: handler.NewReferenceHandler(referenceSvc),
	}

	// 8. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 9. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(cfg.JWTSecret, middleware.NewInvalidAuthRateLimiter(ctx, 5, time.Minute))

	// 10. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	router.Use(m.Middleware())
	handler.SetupRoutes(router, handlers, jwtMw, m)

	// 11. Start workers
	go worker.NewReferenceRefreshWorker(referenceSvc, offerRepo, m, cfg.Worker.ReferenceRefreshInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB, source string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
