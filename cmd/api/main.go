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

	"github.com/tarekmechtaoui-svg/issaqadmin3/api/controllers"
	"github.com/tarekmechtaoui-svg/issaqadmin3/api/routes"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/auth"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/cart"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/catalog"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/categories"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/checkout"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/dashboard"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/media"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/orders"
	product "github.com/tarekmechtaoui-svg/issaqadmin3/internal/products"
	"github.com/tarekmechtaoui-svg/issaqadmin3/internal/users"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/auth/session"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/config"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/instance"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/metrics"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/migrate"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/pubsub"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/redis"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/security"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	store, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	shop := metrics.NewShopMetrics(registry)

	sessions, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}
	unsubscribe := sessions.Subscribe(func(evt session.Event) {
		shop.IncSessionEvent(string(evt.Type))
		logg.Info(logg.WithFields(context.Background(), map[string]any{
			"event":     string(evt.Type),
			"user_id":   evt.Session.Identity.UserID.String(),
			"access_id": evt.Session.AccessID,
		}), "auth.session_changed")
	})
	defer unsubscribe()

	conn := dbClient.DB()
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(conn),
		SessionManager: sessions,
		Passwords:      security.NewHasher(cfg.Password),
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}

	catalogService := catalog.NewService(catalog.NewRepository(conn))
	cartService := cart.NewService(cart.NewRedisPersister(redisClient, cfg.Cart.TTL), catalogService)
	orderRepo := orders.NewRepository(conn)

	checkoutCfg := checkout.Config{
		Cart:            cartService,
		Orders:          orderRepo,
		Confirmations:   redisClient,
		ConfirmationTTL: cfg.Checkout.ConfirmationTTL,
		Metrics:         shop,
		Logger:          logg,
	}
	readiness := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
		"storage":  store,
	}
	if cfg.PubSub.Enabled() {
		var psClient *pubsub.Client
		psClient, err = pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, psClient.Close()) }()
		checkoutCfg.Events = pubsub.NewEventPublisher(pubsub.NewTopicSender(psClient.OrdersPublisher()))
		readiness["pubsub"] = psClient
	}
	checkoutService, err := checkout.NewService(checkoutCfg)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(routes.Deps{
		Config:     cfg,
		Logger:     logg,
		Guards:     redisClient,
		Sessions:   sessions,
		Readiness:  readiness,
		Gatherer:   registry,
		Catalog:    catalogService,
		Cart:       cartService,
		Checkout:   checkoutService,
		Auth:       authService,
		Dashboard:  dashboard.NewService(dashboard.NewRepository(conn)),
		Orders:     orders.NewService(orderRepo, logg),
		Products:   product.NewService(product.NewRepository(conn), logg),
		Categories: categories.NewService(categories.NewRepository(conn), logg),
		Images:     media.NewService(store, cfg.Media, shop, logg),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"bucket":   store.Bucket(),
		"pubsub":   cfg.PubSub.Enabled(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
