// Package providers sources usage records for the allocation core.
//
// A Provider hands the core an already-materialized, immutable snapshot of
// the issue ledger. Sourcing, parsing and dropping malformed rows happen
// here; the domain packages never see a bad record.
package providers

import (
	"context"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/usage"
)

// Provider supplies the historical issue ledger.
type Provider interface {
	// Name identifies the provider ("csv", "sqlite", ...) for logs.
	Name() string

	// Records returns the full cleaned ledger. The returned slice is a
	// snapshot the caller may hold onto; providers must not mutate it after
	// returning.
	Records(ctx context.Context) ([]usage.UsageRecord, error)
}
