package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/billstack-storefront/api/routes"
	"github.com/ArowuTest/billstack-storefront/internal/config"
	"github.com/ArowuTest/billstack-storefront/internal/handlers"
	"github.com/ArowuTest/billstack-storefront/internal/logger"
	"github.com/ArowuTest/billstack-storefront/internal/repositories"
	"github.com/ArowuTest/billstack-storefront/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/billstack-storefront/internal/repositories/mongodb"
	redisrepo "github.com/ArowuTest/billstack-storefront/internal/repositories/redis"
	"github.com/ArowuTest/billstack-storefront/internal/services"
	"github.com/ArowuTest/billstack-storefront/internal/utils"
	"github.com/ArowuTest/billstack-storefront/internal/wizard"
	"github.com/ArowuTest/billstack-storefront/pkg/billstack"
	"github.com/ArowuTest/billstack-storefront/pkg/mongodb"
	"github.com/ArowuTest/billstack-storefront/pkg/objectstore"
	"golang.org/x/exp/slog"
)

type storage struct {
	kv        repositories.KVStore
	orders    repositories.OrderRepository
	customers repositories.CustomerRepository
	close     func(context.Context)
}

// openStorage wires the repositories for the configured driver.
// Orders and customers live in MongoDB unless the driver is memory.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case "mongo", "redis", "memory":
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == "memory" {
		slog.Warn("Using in-memory storage; data is lost on restart")
		return &storage{
			kv:        memory.NewKVStore(),
			orders:    memory.NewOrderRepository(),
			customers: memory.NewCustomerRepository(),
			close:     func(context.Context) {},
		}, nil
	}

	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		return nil, err
	}
	db := mongoClient.Database(cfg.MongoDB.Database)
	s := &storage{
		kv:        mongorepo.NewKVRepository(db),
		orders:    mongorepo.NewOrderRepository(db),
		customers: mongorepo.NewCustomerRepository(db),
		close: func(ctx context.Context) {
			if err := mongoClient.Disconnect(ctx); err != nil {
				slog.Error("Error disconnecting from MongoDB", "error", err)
			}
		},
	}

	if cfg.Storage.Driver == "redis" {
		kv := redisrepo.NewKVStore(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
		if err := kv.Ping(ctx); err != nil {
			slog.Warn("Redis is not reachable yet", "error", err)
		}
		s.kv = kv
		closeMongo := s.close
		s.close = func(ctx context.Context) {
			if err := kv.Close(); err != nil {
				slog.Error("Error closing Redis", "error", err)
			}
			closeMongo(ctx)
		}
	}
	return s, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel)

	if cfg.JWT.Secret == "" {
		secret, err := utils.GenerateRandomString(32)
		if err != nil {
			slog.Error("Failed to generate JWT secret", "error", err)
			os.Exit(1)
		}
		cfg.JWT.Secret = secret
		slog.Warn("JWT_SECRET is not set; tokens will not survive a restart")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store.close(shutdownCtx)
	}()

	gateway := billstack.NewClient(cfg.Billstack.BaseURL, cfg.Billstack.Timeout, cfg.Billstack.MockAPI)
	if cfg.Billstack.MockAPI {
		slog.Warn("Billstack client is running against mock data")
	}

	sessions := services.NewSessionStore(store.kv)
	orderService := services.NewOrderService(gateway, store.orders, sessions)
	authService := services.NewAuthService(gateway, sessions, store.customers, cfg)
	beneficiaryService := services.NewBeneficiaryService(store.kv)

	var submitter wizard.OrderSubmitter
	if cfg.Billstack.SubmitOrders {
		submitter = orderService
	}
	wizardService := services.NewWizardService(gateway, submitter, sessions, services.WizardOptions{
		PhoneDebounce: cfg.Wizard.PhoneDebounce,
		LookupTimeout: cfg.Wizard.LookupTimeout,
		SessionTTL:    cfg.Wizard.SessionTTL,
	})
	go wizardService.Run(ctx)

	var images services.GiftCardImageService
	if cfg.GiftCards.Enabled {
		bucket, err := objectstore.NewMinIOStorage(ctx, objectstore.Config{
			Endpoint:  cfg.GiftCards.Endpoint,
			AccessKey: cfg.GiftCards.AccessKey,
			SecretKey: cfg.GiftCards.SecretKey,
			Bucket:    cfg.GiftCards.Bucket,
			UseSSL:    cfg.GiftCards.UseSSL,
			PublicURL: cfg.GiftCards.PublicURL,
		})
		if err != nil {
			slog.Error("Failed to open gift card bucket", "error", err)
			os.Exit(1)
		}
		images = services.NewGiftCardImageService(bucket)
	}

	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		WizardHandler:      handlers.NewWizardHandler(wizardService, beneficiaryService, images),
		BeneficiaryHandler: handlers.NewBeneficiaryHandler(beneficiaryService),
		AuthHandler:        handlers.NewAuthHandler(authService),
		OrderHandler:       handlers.NewOrderHandler(orderService),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}
