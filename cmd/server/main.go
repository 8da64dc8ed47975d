package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	pricingapp "github.com/shipstack/backend/internal/application/pricing"
	ratecardapp "github.com/shipstack/backend/internal/application/ratecard"
	"github.com/shipstack/backend/internal/domain/geography"
	"github.com/shipstack/backend/internal/domain/pricing"
	"github.com/shipstack/backend/internal/infrastructure/cache"
	"github.com/shipstack/backend/internal/infrastructure/config"
	"github.com/shipstack/backend/internal/infrastructure/geodata"
	"github.com/shipstack/backend/internal/infrastructure/logger"
	"github.com/shipstack/backend/internal/infrastructure/persistence"
	"github.com/shipstack/backend/internal/interfaces/http/handler"
	"github.com/shipstack/backend/internal/interfaces/http/middleware"
	"github.com/shipstack/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ShipStack Pricing API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Load the postal reference dataset and build the zone classifier
	postalIndex, err := geodata.NewLoader(log).LoadFile(cfg.Geo.DatasetPath)
	if err != nil {
		log.Fatal("Failed to load postal dataset",
			zap.String("path", cfg.Geo.DatasetPath),
			zap.Error(err),
		)
	}
	indexProvider := geography.NewIndexProvider(postalIndex)
	classifier := geography.NewClassifier(indexProvider)
	log.Info("Postal dataset loaded", zap.Int("areas", postalIndex.Len()))

	if cfg.Geo.RefreshInterval > 0 {
		go refreshPostalIndex(log, indexProvider, cfg.Geo.DatasetPath, cfg.Geo.RefreshInterval)
	}

	// Build the price cache for the configured backend. When Redis is
	// unreachable the factory degrades to the in-memory cache so pricing
	// stays available.
	cacheFactory := cache.NewPriceCacheFactory(
		cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		cache.WithFactoryLogger(log),
		cache.WithFactoryTTLs(cfg.Pricing.CacheTTL, cfg.Pricing.ZoneCacheTTL),
	)
	priceCache, err := cacheFactory.Create(cfg.Pricing.CacheBackend)
	if err != nil {
		log.Fatal("Failed to create price cache",
			zap.String("backend", cfg.Pricing.CacheBackend),
			zap.Error(err),
		)
	}
	log.Info("Price cache ready", zap.String("backend", cfg.Pricing.CacheBackend))

	// Pricing knobs come in as decimal strings; reject malformed values at startup
	calculatorCfg := pricing.CalculatorConfig{
		BillingUnitKg:  mustDecimal(log, "pricing.billing_unit_kg", cfg.Pricing.BillingUnitKg),
		CODPercent:     mustDecimal(log, "pricing.cod_percent", cfg.Pricing.CODPercent),
		CODMinimum:     mustDecimal(log, "pricing.cod_minimum", cfg.Pricing.CODMinimum),
		TaxRatePercent: mustDecimal(log, "pricing.tax_rate_percent", cfg.Pricing.TaxRatePercent),
	}
	calculator := pricing.NewCalculator(calculatorCfg)
	weightBucket := mustDecimal(log, "pricing.weight_bucket_kg", cfg.Pricing.WeightBucketKg)

	// Initialize repositories
	rateCardRepo := persistence.NewGormRateCardRepository(db.DB)
	tenantDirectory := persistence.NewGormTenantDirectory(db.DB)

	// Initialize application services
	quoteService := pricingapp.NewQuoteService(
		rateCardRepo,
		classifier,
		priceCache,
		tenantDirectory,
		calculator,
		pricingapp.WithWeightBucket(weightBucket),
		pricingapp.WithCacheTTLs(cfg.Pricing.CacheTTL, cfg.Pricing.ZoneCacheTTL),
		pricingapp.WithCompareLegTimeout(cfg.Pricing.CompareLegTimeout),
		pricingapp.WithQuoteLogger(log),
	)
	adminService := ratecardapp.NewAdminService(rateCardRepo, priceCache, log)

	// Initialize HTTP handlers
	pricingHandler := handler.NewPricingHandler(quoteService)
	rateCardHandler := handler.NewRateCardHandler(adminService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(pricingHandler).
		Register(rateCardHandler).
		Register(systemHandler)
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// refreshPostalIndex periodically reloads the postal dataset and swaps the
// snapshot. A failed reload keeps the previous snapshot serving.
func refreshPostalIndex(log *zap.Logger, provider *geography.IndexProvider, path string, interval time.Duration) {
	loader := geodata.NewLoader(log)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		index, err := loader.LoadFile(path)
		if err != nil {
			log.Warn("Postal dataset refresh failed, keeping current snapshot",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		provider.Replace(index)
		log.Info("Postal dataset refreshed", zap.Int("areas", index.Len()))
	}
}

// mustDecimal parses a decimal config knob or aborts startup
func mustDecimal(log *zap.Logger, key, value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		log.Fatal("Invalid decimal config value",
			zap.String("key", key),
			zap.String("value", value),
			zap.Error(err),
		)
	}
	return d
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
