package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"

	"github.com/fridgechef/marcel/internal/api"
	"github.com/fridgechef/marcel/internal/cache"
	"github.com/fridgechef/marcel/internal/config"
	"github.com/fridgechef/marcel/internal/logger"
	"github.com/fridgechef/marcel/internal/metrics"
	"github.com/fridgechef/marcel/internal/middleware"
	"github.com/fridgechef/marcel/internal/sentry"
	"github.com/fridgechef/marcel/internal/services/images"
	"github.com/fridgechef/marcel/internal/services/openai"
	"github.com/fridgechef/marcel/internal/services/recipe"
	"github.com/fridgechef/marcel/internal/telemetry"
)

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, nil)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize Sentry
	sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion)
	if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// Initialize logger with OTel support
	logger := logger.New(cfg.Env)
	slog.SetDefault(logger) // Set as default so slog.Info() uses our handler

	// Validation cache: shared Redis when configured, in-process LRU otherwise
	var validationCache cache.Cache
	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		validationCache = redisCache
	} else {
		validationCache, err = cache.NewLRUCache(cache.DefaultLRUSize)
		if err != nil {
			log.Fatalf("Failed to build LRU cache: %v", err)
		}
	}

	openaiClient := openai.NewClient(cfg.OpenAIKey, validationCache)

	// Image storage backend
	var (
		store     recipe.ImageStore
		files     api.FileResolver
		signer    api.URLSigner
		s3Store   *images.S3Store
		localPath string
	)
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		s3Store, err = images.NewS3Store(ctx, cfg.Storage.S3Bucket, cfg.Storage.AWSRegion)
		if err != nil {
			log.Fatalf("Failed to init S3 storage: %v", err)
		}
		store = s3Store
		signer = s3Store
	default:
		localStore, err := images.NewLocalStore(cfg.Storage.ImageDir, cfg.Storage.ImageBaseURL, cfg.Storage.MaxImages)
		if err != nil {
			log.Fatalf("Failed to init local storage: %v", err)
		}
		store = localStore
		files = localStore
		localPath = cfg.Storage.ImageDir
	}

	recipeService := recipe.NewService(openaiClient, store)

	apiServer := api.NewServer(cfg, recipeService, files, signer)
	if redisCache != nil {
		apiServer.AddPinger("redis", redisCache)
	}
	if s3Store != nil {
		apiServer.AddPinger("s3", s3Store)
	}

	// Router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware(cfg.ServiceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig(cfg.ServiceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Use(sentry.HTTPMiddleware)

	var authMiddleware func(http.Handler) http.Handler
	if cfg.APIJWTSecret != "" {
		authMiddleware = middleware.AuthMiddleware(cfg)
	}
	apiServer.Routes(r, authMiddleware)

	slog.Info("Starting server",
		"port", cfg.Port,
		"storage", cfg.Storage.Backend,
		"image_dir", localPath)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
