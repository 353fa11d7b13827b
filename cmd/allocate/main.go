// Command allocate distributes an available quantity of an item across
// departments, proportionally to their historical consumption.
//
// Usage:
//
//	allocate -item "Flour" -quantity 50
//	allocate -item 1001 -quantity 50 -department Bakery -min-share 2
//	allocate -item "Flour" -quantity 50 -floor 5 -csv ledger.csv
//	allocate -item "Flour" -quantity 50 -csv-out allocation.csv
//
// Exits 1 when the item has no usage history, 2 on bad arguments.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/application/service"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/cli"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/allocator"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/usage"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/config"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/logging"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/storage"
)

func main() {
	flags := cli.ParseAllocateFlags()

	if flags.Item == "" || flags.Quantity == "" {
		fmt.Fprintln(os.Stderr, "Error: -item and -quantity are required")
		os.Exit(2)
	}

	quantity, err := decimal.NewFromString(flags.Quantity)
	if err != nil || quantity.IsNegative() {
		fmt.Fprintln(os.Stderr, "Error: -quantity must be a non-negative number")
		os.Exit(2)
	}

	cfg := config.LoadOrEnv()
	if flags.CSVPath != "" {
		cfg.Ledger.Source = "csv"
		cfg.Ledger.CSVPath = flags.CSVPath
	}

	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	} else {
		loggingCfg.Level = "warn" // keep the table clean
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "allocate")

	var store *storage.Storage
	if cfg.Ledger.Source == "sqlite" {
		store, err = storage.NewStorage(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open database: %v\n", err)
			os.Exit(2)
		}
		defer func() { _ = store.Close() }()
	}

	provider, err := cli.BuildProvider(cfg, store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	var recorder service.RunRecorder
	if store != nil {
		recorder = store
	}
	svc := service.NewAllocationService(provider, recorder, logger)

	cli.PrintHeader(flags.Item, quantity.String())

	result, err := svc.Allocate(context.Background(), service.AllocateRequest{
		Identifier:      flags.Item,
		Department:      flags.Department,
		Quantity:        quantity,
		MinSharePercent: flags.MinShare,
		MinFloorPercent: flags.Floor,
		Precision:       int32(flags.Precision),
		MatchContains:   flags.Contains,
	})
	if err != nil {
		switch {
		case errors.Is(err, usage.ErrNoUsage):
			cli.PrintNotFound(flags.Item)
			os.Exit(1)
		case errors.Is(err, allocator.ErrInvalidInput), errors.Is(err, usage.ErrInvalidThreshold):
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	}

	cli.PrintAllocation(result)

	if flags.CSVOut != "" {
		if err := cli.WriteCSVFile(flags.CSVOut, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: write %s: %v\n", flags.CSVOut, err)
			os.Exit(2)
		}
	}
}
