package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/Mo7Ati/dawlystore-storefront/api/controllers"
	"github.com/Mo7Ati/dawlystore-storefront/api/routes"
	"github.com/Mo7Ati/dawlystore-storefront/internal/address"
	"github.com/Mo7Ati/dawlystore-storefront/internal/auth"
	"github.com/Mo7Ati/dawlystore-storefront/internal/cart"
	"github.com/Mo7Ati/dawlystore-storefront/internal/checkout"
	"github.com/Mo7Ati/dawlystore-storefront/internal/orders"
	"github.com/Mo7Ati/dawlystore-storefront/internal/products"
	"github.com/Mo7Ati/dawlystore-storefront/internal/stores"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/backend"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/config"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/db"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/env"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/instance"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/metrics"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewStorefrontMetrics(registry)

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	var closers []func() error
	closers = append(closers, redisClient.Close)

	pingers := map[string]controllers.Pinger{
		"redis": redisClient,
	}

	persister, dbClient, err := buildPersister(context.Background(), cfg, redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cart persistence", err)
		os.Exit(1)
	}
	if dbClient != nil {
		closers = append(closers, dbClient.Close)
		pingers["db"] = dbClient
	}

	backendClient, err := backend.NewClient(context.Background(), cfg.Backend, logg, m)
	if err != nil {
		logg.Error(context.Background(), "failed to create platform client", err)
		os.Exit(1)
	}
	pingers["backend"] = backendClient

	authService, err := auth.NewService(cfg.Session, redisClient, backendClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	storeService, err := stores.NewService(backendClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}
	productService, err := products.NewService(backendClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	addressService, err := address.NewService(backendClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(backendClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	cartManager, err := cart.NewManager(persister, logg, m)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}
	checkoutManager, err := checkout.NewManager(cartManager, auth.ContextChecker{}, backendClient, backendClient, logg, m)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout manager", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		Redis:           redisClient,
		Registry:        registry,
		Pingers:         pingers,
		AuthService:     authService,
		StoreService:    storeService,
		ProductService:  productService,
		AddressService:  addressService,
		OrderService:    orderService,
		CartManager:     cartManager,
		CheckoutManager: checkoutManager,
	})

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "storefront server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining requests")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "server drain failed", err)
		}
	}

	var closeErr error
	for _, closeFn := range closers {
		closeErr = multierr.Append(closeErr, closeFn())
	}
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "storefront server stopped")
}

// buildPersister picks the cart snapshot store: redis by default, SQL
// when the feature flag asks for it.
func buildPersister(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logg *logger.Logger) (cart.Persister, *db.Client, error) {
	if !cfg.FeatureFlags.UseSQLDB {
		return cart.NewRedisPersister(redisClient, cfg.Cart.SnapshotTTL), nil, nil
	}

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return nil, nil, err
	}

	persister := cart.NewSQLPersister(dbClient)
	if cfg.FeatureFlags.AutoMigrate {
		if err := persister.Migrate(); err != nil {
			return nil, nil, err
		}
	}
	return persister, dbClient, nil
}
