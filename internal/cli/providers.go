package cli

import (
	"fmt"
	"log/slog"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/adapters/providers"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/config"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/storage"
)

// BuildProvider constructs the configured ledger provider, wrapped in the
// TTL cache. The sqlite source needs an open store; the csv source ignores it.
func BuildProvider(cfg *config.Config, store *storage.Storage, logger *slog.Logger) (providers.Provider, error) {
	var inner providers.Provider

	switch cfg.Ledger.Source {
	case "csv":
		inner = providers.NewCSVProvider(cfg.Ledger.CSVPath, cfg.Ledger.Since(), logger)
	case "sqlite":
		if store == nil {
			return nil, fmt.Errorf("sqlite ledger source requires a database at %s", cfg.Storage.DatabasePath)
		}
		inner = providers.NewStoreProvider(store, cfg.Ledger.Since())
	default:
		return nil, fmt.Errorf("unknown ledger source %q", cfg.Ledger.Source)
	}

	return providers.NewCached(inner, cfg.Ledger.TTL()), nil
}
