package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/CAHEKA/servisRest/api/routes"
	"github.com/CAHEKA/servisRest/internal/auth"
	"github.com/CAHEKA/servisRest/internal/cart"
	"github.com/CAHEKA/servisRest/internal/checkout"
	"github.com/CAHEKA/servisRest/internal/orders"
	"github.com/CAHEKA/servisRest/internal/products"
	"github.com/CAHEKA/servisRest/internal/users"
	"github.com/CAHEKA/servisRest/pkg/auth/session"
	"github.com/CAHEKA/servisRest/pkg/config"
	"github.com/CAHEKA/servisRest/pkg/db"
	"github.com/CAHEKA/servisRest/pkg/logger"
	"github.com/CAHEKA/servisRest/pkg/metrics"
	"github.com/CAHEKA/servisRest/pkg/migrate"
	"github.com/CAHEKA/servisRest/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(context.Background(), logg, "database", err)

	err = migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient)
	requireResource(context.Background(), logg, "dev migrations", err)

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(context.Background(), logg, "redis", err)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(context.Background(), logg, "session manager", err)

	usersRepo := users.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	requireResource(context.Background(), logg, "auth service", err)

	productsService, err := products.NewService(productsRepo)
	requireResource(context.Background(), logg, "products service", err)

	cartService, err := cart.NewService(cartRepo, productsRepo, dbClient)
	requireResource(context.Background(), logg, "cart service", err)

	checkoutService, err := checkout.NewService(cartRepo, productsRepo, ordersRepo, usersRepo, dbClient)
	requireResource(context.Background(), logg, "checkout service", err)

	ordersService, err := orders.NewService(ordersRepo)
	requireResource(context.Background(), logg, "orders service", err)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			httpMetrics,
			registry,
			authService,
			productsService,
			cartService,
			checkoutService,
			ordersService,
		),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
		if err := redisClient.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close redis: %w", err))
		}
		if err := dbClient.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close database: %w", err))
		}
		if errs != nil {
			logg.Error(ctx, "api server shutdown finished with errors", errs)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shutdown complete")
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
