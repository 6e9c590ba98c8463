// Command import-beneficiaries loads a CSV of saved recipients into a client's beneficiary list.
//
//	import-beneficiaries -client <client-id> beneficiaries.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/config"
	"github.com/ArowuTest/billstack-storefront/internal/logger"
	"github.com/ArowuTest/billstack-storefront/internal/models"
	"github.com/ArowuTest/billstack-storefront/internal/repositories"
	mongorepo "github.com/ArowuTest/billstack-storefront/internal/repositories/mongodb"
	redisrepo "github.com/ArowuTest/billstack-storefront/internal/repositories/redis"
	"github.com/ArowuTest/billstack-storefront/internal/services"
	"github.com/ArowuTest/billstack-storefront/internal/utils"
	"github.com/ArowuTest/billstack-storefront/pkg/mongodb"
	"golang.org/x/exp/slog"
)

func main() {
	clientID := flag.String("client", "", "client id that owns the beneficiaries")
	flag.Parse()
	if *clientID == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: import-beneficiaries -client <client-id> <file.csv>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel)

	if err := run(cfg, *clientID, flag.Arg(0)); err != nil {
		slog.Error("Import failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, clientID, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	result, err := utils.ParseBeneficiariesCSV(file)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		slog.Warn("Skipped row", "detail", e)
	}

	var kv repositories.KVStore
	switch cfg.Storage.Driver {
	case "redis":
		store := redisrepo.NewKVStore(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
		defer store.Close()
		kv = store
	case "mongo":
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer client.Disconnect(context.Background())
		kv = mongorepo.NewKVRepository(client.Database(cfg.MongoDB.Database))
	default:
		return fmt.Errorf("storage driver %q cannot be imported into", cfg.Storage.Driver)
	}

	svc := services.NewBeneficiaryService(kv)
	var list []models.Beneficiary
	for _, b := range result.Beneficiaries {
		if list, err = svc.Save(ctx, clientID, b); err != nil {
			return err
		}
	}
	slog.Info("Import finished", "clientId", clientID, "rows", result.TotalRows, "parsed", len(result.Beneficiaries), "saved", len(list), "skipped", len(result.Errors))
	return nil
}
