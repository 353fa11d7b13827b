// Command import loads a ledger CSV export into the local SQLite store.
//
// Usage:
//
//	import -csv ledger.csv
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/adapters/providers"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/cli"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/config"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/logging"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/storage"
)

func main() {
	flags := cli.ParseImportFlags()

	if flags.CSVPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -csv is required")
		os.Exit(2)
	}

	cfg := config.LoadOrEnv()
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "import")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open database: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = store.Close() }()

	// Import the full export; the date floor applies at query time.
	provider := providers.NewCSVProvider(flags.CSVPath, time.Time{}, logger)

	ctx := context.Background()
	start := time.Now()

	records, err := provider.Records(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := store.SaveRecords(ctx, records); err != nil {
		fmt.Fprintf(os.Stderr, "Error: save records: %v\n", err)
		os.Exit(2)
	}

	logger.Info("import complete",
		"records", len(records),
		"db", cfg.Storage.DatabasePath,
		"duration", time.Since(start).String(),
	)
	fmt.Printf("Imported %d records into %s\n", len(records), cfg.Storage.DatabasePath)
}
