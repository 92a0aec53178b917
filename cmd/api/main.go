package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	"storefront/internal/publisher"
	cartrepo "storefront/internal/repository/cart"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	sessionrepo "storefront/internal/repository/session"
	userrepo "storefront/internal/repository/user"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	checkoutsvc "storefront/internal/service/checkout"
	identitysvc "storefront/internal/service/identity"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New("api")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if keys := cfg.InsecureDefaults(); len(keys) > 0 {
		logger.Warn("using development defaults, set these before deploying", zap.Strings("keys", keys))
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatal("connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	sessionRepo := sessionrepo.NewPostgres(dbpool)
	drafts := cache.NewRedisDrafts(rdb, cfg.DraftTTL)

	catalogService := catalogsvc.New(productRepo)
	cartService := cartsvc.New(cartRepo, productRepo, logger)
	checkoutService := checkoutsvc.New(cartRepo, drafts, orderRepo, logger)
	identityService := identitysvc.New(userRepo, sessionRepo, []byte(cfg.JWTSecret), cfg.SessionTTL, logger)
	identityService.OnLogout(checkoutService.Discard)

	if cfg.AdminPassword != "" {
		if err := identityService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("ensure admin user", zap.Error(err))
		}
	}

	var pub publisher.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		pub = publisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderTopic, logger)
		logger.Info("publishing orders to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.OrderTopic))
	} else {
		pub = publisher.NewLogPublisher(logger)
		logger.Info("no kafka brokers configured, logging orders instead")
	}
	defer pub.Close()

	pollCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	poller := publisher.NewOutboxPoller(orderRepo, pub, cfg.OutboxInterval, logger)
	go poller.Run(pollCtx)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:       catalogService,
		Cart:          cartService,
		Checkout:      checkoutService,
		Identity:      identityService,
		PublicAnonKey: cfg.PublicAnonKey,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
	stopPoller()
}
