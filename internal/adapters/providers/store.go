package providers

import (
	"context"
	"time"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/usage"
)

// RecordStore is the slice of the storage layer this package needs.
type RecordStore interface {
	LoadRecords(ctx context.Context, since time.Time) ([]usage.UsageRecord, error)
}

// StoreProvider serves the ledger from the local SQLite store.
type StoreProvider struct {
	store RecordStore
	since time.Time
}

// NewStoreProvider creates a provider backed by an imported ledger store.
func NewStoreProvider(store RecordStore, since time.Time) *StoreProvider {
	return &StoreProvider{store: store, since: since}
}

// Name implements Provider.
func (p *StoreProvider) Name() string { return "sqlite" }

// Records implements Provider.
func (p *StoreProvider) Records(ctx context.Context) ([]usage.UsageRecord, error) {
	return p.store.LoadRecords(ctx, p.since)
}
