package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmarconi/threadline-backend/api/routes"
	"github.com/rmarconi/threadline-backend/internal/auth"
	"github.com/rmarconi/threadline-backend/internal/catalog"
	"github.com/rmarconi/threadline-backend/internal/categories"
	"github.com/rmarconi/threadline-backend/internal/inventory"
	"github.com/rmarconi/threadline-backend/internal/search"
	"github.com/rmarconi/threadline-backend/internal/users"
	"github.com/rmarconi/threadline-backend/pkg/auth/session"
	"github.com/rmarconi/threadline-backend/pkg/config"
	"github.com/rmarconi/threadline-backend/pkg/db"
	"github.com/rmarconi/threadline-backend/pkg/logger"
	"github.com/rmarconi/threadline-backend/pkg/metrics"
	"github.com/rmarconi/threadline-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.Mongo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap mongo", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			logg.Error(context.Background(), "error closing mongo", err)
		}
	}()

	if supported, err := dbClient.SupportsTransactions(context.Background()); err != nil {
		logg.Error(context.Background(), "could not determine transaction support", err)
	} else if !supported {
		logg.Warn(context.Background(), "mongo deployment does not support transactions, product writes fall back to sequential mode")
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	catalogMetrics := metrics.NewCatalogMetrics(registry)

	userRepo, err := users.NewRepository(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create user repository", err)
		os.Exit(1)
	}
	productRepo, err := catalog.NewProductRepository(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product repository", err)
		os.Exit(1)
	}
	variantRepo, err := catalog.NewVariantRepository(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create variant repository", err)
		os.Exit(1)
	}
	categoryRepo, err := categories.NewRepository(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create category repository", err)
		os.Exit(1)
	}
	searchRepo, err := search.NewRepository(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create search repository", err)
		os.Exit(1)
	}

	guard := catalog.NewOwnershipGuard(productRepo)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := catalog.NewProductService(productRepo, variantRepo, guard, dbClient, catalogMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	variantService, err := catalog.NewVariantService(variantRepo, guard)
	if err != nil {
		logg.Error(context.Background(), "failed to create variant service", err)
		os.Exit(1)
	}

	categoryService, err := categories.NewService(categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	searchService, err := search.NewService(searchRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create search service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(productRepo, variantRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:         cfg,
			Logger:         logg,
			SessionChecker: sessionManager,
			HTTPMetrics:    httpMetrics,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),

			MongoPinger: dbClient,
			RedisPinger: redisClient,

			AuthService:      authService,
			ProductService:   productService,
			VariantService:   variantService,
			CategoryService:  categoryService,
			SearchService:    searchService,
			InventoryService: inventoryService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
