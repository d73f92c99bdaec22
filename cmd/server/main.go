package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/mfg/backend/internal/application/catalog"
	mfgapp "github.com/mfg/backend/internal/application/manufacturing"
	workforceapp "github.com/mfg/backend/internal/application/workforce"
	"github.com/mfg/backend/internal/infrastructure/cache"
	"github.com/mfg/backend/internal/infrastructure/config"
	"github.com/mfg/backend/internal/infrastructure/label"
	"github.com/mfg/backend/internal/infrastructure/logger"
	"github.com/mfg/backend/internal/infrastructure/persistence"
	"github.com/mfg/backend/internal/infrastructure/storage"
	"github.com/mfg/backend/internal/interfaces/http/handler"
	"github.com/mfg/backend/internal/interfaces/http/middleware"
	"github.com/mfg/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Manufacturing Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	taskFormRepo := persistence.NewGormTaskFormRepository(db.DB)

	// Transaction scopes keep the position shifts and box rebuilds atomic
	catalogScope := persistence.NewGormCatalogTransactionScope(db.DB)
	manufacturingScope := persistence.NewGormManufacturingTransactionScope(db.DB)

	// Product name cache: Redis when configured, in-process otherwise
	var nameCache catalogapp.ProductNameCache
	if cfg.Redis.Host != "" {
		redisCache, err := cache.NewRedisProductNameCache(&cfg.Redis,
			cache.WithCacheTTL(cfg.Redis.NameCacheTTL),
			cache.WithCacheLogger(log),
		)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		nameCache = redisCache
		log.Info("Redis name cache connected", zap.String("host", cfg.Redis.Host))
	} else {
		nameCache = cache.NewInMemoryProductNameCache(cfg.Redis.NameCacheTTL)
		log.Warn("Redis not configured, using in-process name cache")
	}

	// Object storage for product photos, item photos and box labels
	var catalogStorage catalogapp.ObjectStorage
	var manufacturingStorage mfgapp.ObjectStorage
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		ensureCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(ensureCtx); err != nil {
			cancel()
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		cancel()
		catalogStorage = s3Storage
		manufacturingStorage = s3Storage
		log.Info("Object storage ready",
			zap.String("endpoint", cfg.Storage.Endpoint),
			zap.String("bucket", cfg.Storage.Bucket),
		)
	} else {
		memStorage := storage.NewMemoryObjectStorage()
		catalogStorage = memStorage
		manufacturingStorage = memStorage
		log.Warn("Object storage not configured, uploads are held in memory")
	}

	// Box label renderer
	renderer := label.NewQRRenderer(label.WithSize(cfg.Label.Size))

	// Employee directory adapter for manufacturing assignments
	directory := workforceapp.NewDirectory(employeeRepo)

	// Initialize application services
	productConfig := catalogapp.DefaultProductServiceConfig()
	productConfig.CompactOnDelete = cfg.Catalog.CompactOnDelete
	if cfg.Storage.PresignExpiration > 0 {
		productConfig.DownloadURLExpiry = cfg.Storage.PresignExpiration
	}
	productService := catalogapp.NewProductService(
		productRepo, catalogScope, nameCache, catalogStorage, productConfig, log,
	)

	itemConfig := mfgapp.DefaultItemServiceConfig()
	if cfg.Label.Concurrency > 0 {
		itemConfig.LabelConcurrency = cfg.Label.Concurrency
	}
	if cfg.Storage.PresignExpiration > 0 {
		itemConfig.DownloadURLExpiry = cfg.Storage.PresignExpiration
	}
	itemService := mfgapp.NewItemService(
		itemRepo, manufacturingScope, directory, manufacturingStorage, renderer, itemConfig, log,
	)
	itemService.SetProductLookup(mfgapp.NewCatalogLookup(productRepo, nameCache, log))
	transferService := mfgapp.NewTransferService(transferRepo, manufacturingScope, directory, log)
	taskFormService := mfgapp.NewTaskFormService(taskFormRepo, itemRepo, directory)
	employeeService := workforceapp.NewEmployeeService(employeeRepo)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product:  handler.NewProductHandler(productService),
		Item:     handler.NewItemHandler(itemService),
		Transfer: handler.NewTransferHandler(transferService),
		TaskForm: handler.NewTaskFormHandler(taskFormService),
		Employee: handler.NewEmployeeHandler(employeeService),
		System:   handler.NewSystemHandler(),
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

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

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoints (outside API versioning). /health reports
	// liveness, /ready also checks the database.
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	engine.GET("/ready", readyHandler(db, log))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Setup(handlers)

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

// readyHandler returns a handler for the readiness check endpoint
func readyHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
