package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shabadpapers/shabad-api/config"
	"github.com/shabadpapers/shabad-api/internal/cache"
	"github.com/shabadpapers/shabad-api/internal/database/postgres"
	"github.com/shabadpapers/shabad-api/internal/database/sqlite"
	"github.com/shabadpapers/shabad-api/internal/handlers"
	"github.com/shabadpapers/shabad-api/internal/middleware"
	"github.com/shabadpapers/shabad-api/internal/repository"
	"github.com/shabadpapers/shabad-api/internal/services"
	"github.com/shabadpapers/shabad-api/pkg/db"
	"github.com/shabadpapers/shabad-api/pkg/httpclient"
	"github.com/shabadpapers/shabad-api/pkg/llm"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"github.com/shabadpapers/shabad-api/pkg/profiling"
	"github.com/shabadpapers/shabad-api/pkg/recaptcha"
	"github.com/shabadpapers/shabad-api/pkg/relay"
	"github.com/shabadpapers/shabad-api/pkg/retry"
	"github.com/shabadpapers/shabad-api/pkg/session"
	"github.com/shabadpapers/shabad-api/pkg/storage"
	"github.com/shabadpapers/shabad-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// openDocumentStore connects to PostgreSQL, or opens and seeds the embedded
// SQLite store in offline mode
func openDocumentStore(ctx context.Context, cfg *config.Config) (repository.DocumentStore, error) {
	if cfg.Database.WorkOffline {
		logger.Warn("Working offline: using the embedded SQLite document store")
		store, err := sqlite.Open(ctx, cfg.Database.OfflinePath)
		if err != nil {
			return nil, err
		}
		if err := store.Seed(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to seed offline store: %w", err)
		}
		return store, nil
	}

	pool, err := retry.DoWithResult(ctx, retry.StoreConfig(), "connect_document_store", func() (*pgxpool.Pool, error) {
		return db.NewPool(ctx, db.PoolConfig{
			URL:        cfg.Database.URL,
			CACertPath: cfg.Database.CACertPath,
			MaxConns:   cfg.Database.MaxConns,
			MinConns:   cfg.Database.MinConns,
		})
	})
	if err != nil {
		return nil, err
	}
	return postgres.NewClient(pool), nil
}

// newMediaResolver presigns object keys when a bucket is configured and
// serves them from the site otherwise
func newMediaResolver(cfg *config.Config) storage.MediaResolver {
	if !cfg.MediaStorageEnabled() {
		return storage.StaticResolver{BaseURL: cfg.Server.BaseURL}
	}
	return storage.NewS3Resolver(storage.S3Config{
		AccessKeyID:     cfg.MediaStorage.AccessKeyID,
		SecretAccessKey: cfg.MediaStorage.SecretAccessKey,
		BucketName:      cfg.MediaStorage.BucketName,
		Endpoint:        cfg.MediaStorage.Endpoint,
		Region:          cfg.MediaStorage.Region,
		URLExpiry:       time.Duration(cfg.MediaStorage.URLExpiryMinutes) * time.Minute,
	})
}

// newGenerator returns nil when no provider key is configured; suggestions
// then fail with the generic message instead of blocking startup
func newGenerator(ctx context.Context, cfg *config.Config) llm.Generator {
	generator, err := llm.New(ctx, llm.Config{
		Provider:        cfg.LLM.Provider,
		Model:           cfg.LLM.Model,
		APIKey:          cfg.LLMAPIKey(),
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	})
	if err != nil {
		logger.Warn("AI suggestions disabled", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
		return nil
	}
	logger.Info("AI suggestions enabled", zap.String("provider", generator.Name()))
	return generator
}

// registerAPIRoutes registers the versioned public API
func registerAPIRoutes(
	group *gin.RouterGroup,
	generalRateLimiter, submitRateLimiter, aiRateLimiter *middleware.RateLimiter,
	formHandler *handlers.FormHandler,
	inquiryHandler *handlers.InquiryHandler,
	suggestionHandler *handlers.SuggestionHandler,
	catalogHandler *handlers.CatalogHandler,
	sessionHandler *handlers.SessionHandler,
	siteLogsHandler *handlers.SiteLogsHandler,
	catalogMaxAge int,
) {
	// SECURITY: Apply body size limits to prevent DoS attacks
	group.POST("/inquiry", submitRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), inquiryHandler.SubmitInquiry)
	group.POST("/suggestions", aiRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024), suggestionHandler.GetPaperSuggestion)

	group.GET("/forms/:formId", generalRateLimiter.Middleware(), formHandler.GetForm)
	group.POST("/forms/:formId/submit", submitRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), formHandler.SubmitForm)

	catalog := group.Group("", generalRateLimiter.Middleware(), middleware.PublicCacheMiddleware(catalogMaxAge))
	catalog.GET("/categories", catalogHandler.ListCategories)
	catalog.GET("/categories/:slug", catalogHandler.GetCategory)
	catalog.GET("/products/:slug", catalogHandler.GetProduct)
	catalog.GET("/catalog/:slug", catalogHandler.Lookup)

	group.POST("/session/anonymous", generalRateLimiter.Middleware(), sessionHandler.StartAnonymous)
	group.GET("/session", generalRateLimiter.Middleware(), sessionHandler.GetSession)

	group.POST("/logs", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(1*1024*1024), siteLogsHandler.ReceiveSiteLogs)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Shabad Papers API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// background workers stop with this context on shutdown
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Config{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiling, err := profiling.Start(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer stopProfiling()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics(appCtx.Done())

	// Open the document store once; every repository shares this handle
	store, err := openDocumentStore(appCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to open document store", zap.Error(err))
	}
	defer store.Close()
	logger.Info("Document store ready", zap.String("store", store.Name()))

	// Populate the catalog cache before accepting requests so the container
	// is only marked healthy once the products page can be served
	catalogCache := cache.NewCatalogCache(store, cfg.Cache.CatalogTTLSeconds)
	if err := catalogCache.Initialize(appCtx); err != nil {
		logger.Fatal("Failed to initialize catalog cache", zap.Error(err))
	}

	// Initialize HTTP client for external API calls
	httpClient := httpclient.NewStandardClient()

	// Initialize services
	formService := services.NewFormService(store)
	inquiryService := services.NewInquiryService(
		relay.NewClient(cfg.Inquiry.RelayURL, httpClient),
		recaptcha.NewVerifier(cfg.ReCAPTCHA.SecretKey, httpClient),
		cfg,
		httpClient,
	)
	suggestionService := services.NewSuggestionService(newGenerator(appCtx, cfg))
	catalogService := services.NewCatalogService(catalogCache, newMediaResolver(cfg))
	sessionService := services.NewSessionService(
		session.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.JWTIssuer, cfg.Session.TTLHours),
		cfg,
	)

	// Initialize handlers
	formHandler := handlers.NewFormHandler(formService, inquiryService)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	healthHandler := handlers.NewHealthHandler(catalogCache.IsReady, store.Ping)
	siteLogDir := ""
	if cfg.IsProduction() {
		siteLogDir = cfg.Logging.Dir
	}
	siteLogsHandler := handlers.NewSiteLogsHandler(logger.NewSiteLogger(siteLogDir))

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.VisitorSessionMiddleware(sessionService, middleware.CookieSettings{
		Name:   sessionService.GetCookieName(),
		Domain: sessionService.GetCookieDomain(),
		Secure: sessionService.GetCookieSecure(),
	}))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - SECURITY: Only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	// Allow localhost in development
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:9002")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // Required for the visitor session cookie
		MaxAge:           12 * time.Hour,
	}))

	// SECURITY: Rate limiters to prevent abuse and DoS attacks
	generalRateLimiter := middleware.NewRateLimiter(appCtx, 100, 200) // 100 req/sec, burst of 200
	submitRateLimiter := middleware.NewRateLimiter(appCtx, 0.1, 5)    // 6 req/min, burst of 5 (prevent inquiry spam)
	aiRateLimiter := middleware.NewRateLimiter(appCtx, 0.2, 3)        // 12 req/min, burst of 3 (LLM cost)

	// API routes
	api := router.Group("/api")
	// Utility endpoints (not versioned - operational endpoints)
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes
	registerAPIRoutes(router.Group("/api/v1"), generalRateLimiter, submitRateLimiter, aiRateLimiter,
		formHandler, inquiryHandler, suggestionHandler, catalogHandler, sessionHandler, siteLogsHandler,
		cfg.Cache.CatalogTTLSeconds)

	// SECURITY: Bind to all interfaces for Docker Compose networking
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // suggestion calls can take tens of seconds
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // SECURITY: 1 MB max header size
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopApp()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
