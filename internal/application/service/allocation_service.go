// Package service wires the ledger provider to the allocation domain and
// records the results.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/adapters/providers"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/allocator"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/report"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/usage"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/storage"
)

// RunRecorder is the slice of the storage layer the service writes to. Nil
// disables the audit trail.
type RunRecorder interface {
	SaveRun(ctx context.Context, run *storage.AllocationRun) error
}

// AllocationService runs the provider -> aggregator -> allocator pipeline.
type AllocationService struct {
	provider providers.Provider
	recorder RunRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewAllocationService creates the service. recorder may be nil.
func NewAllocationService(p providers.Provider, recorder RunRecorder, logger *slog.Logger) *AllocationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AllocationService{
		provider: p,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// AllocateRequest carries one allocation query.
type AllocateRequest struct {
	Identifier      string
	Department      string
	Quantity        decimal.Decimal
	MinSharePercent float64
	MinFloorPercent float64
	Precision       int32
	MatchContains   bool
}

// AllocateResult is the full outcome: proportions, quantities and summary.
type AllocateResult struct {
	RunID       string
	Proportions []usage.Proportion
	Entries     []allocator.Entry
	Summary     report.Summary
}

// Allocate computes the allocation for one request. usage.ErrNoUsage and
// allocator.ErrInvalidInput pass through for the caller to branch on.
func (s *AllocationService) Allocate(ctx context.Context, req AllocateRequest) (*AllocateResult, error) {
	props, err := s.Usage(ctx, req.Identifier, req.Department, req.MinSharePercent, req.MatchContains)
	if err != nil {
		return nil, err
	}

	entries, err := allocator.Allocate(props, req.Quantity, allocator.Options{
		Precision:       req.Precision,
		MinFloorPercent: req.MinFloorPercent,
	})
	if err != nil {
		return nil, err
	}

	result := &AllocateResult{
		RunID:       uuid.NewString(),
		Proportions: props,
		Entries:     entries,
		Summary:     report.Summarize(entries),
	}

	if s.recorder != nil {
		if err := s.recorder.SaveRun(ctx, s.runRecord(result.RunID, req, entries)); err != nil {
			// The allocation itself succeeded; a failed audit write is not
			// worth failing the request over.
			s.logger.Warn("failed to record allocation run", "run_id", result.RunID, "error", err)
		}
	}

	s.logger.Info("allocation computed",
		"run_id", result.RunID,
		"identifier", req.Identifier,
		"quantity", req.Quantity.String(),
		"departments", len(entries),
	)

	return result, nil
}

// Usage computes the proportion table only, without allocating a quantity.
func (s *AllocationService) Usage(ctx context.Context, identifier, department string, minShare float64, contains bool) ([]usage.Proportion, error) {
	records, err := s.provider.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger from %s provider: %w", s.provider.Name(), err)
	}

	return usage.Compute(records, usage.ParseIdentifier(identifier), usage.Options{
		Department:      department,
		MinSharePercent: minShare,
		MatchContains:   contains,
	})
}

// snapshotInvalidator is implemented by providers that hold a cached ledger
// snapshot, such as providers.Cached.
type snapshotInvalidator interface {
	Invalidate()
}

// RefreshLedger drops the provider's cached snapshot so the next read hits
// the source. Returns false when the provider holds no cache.
func (s *AllocationService) RefreshLedger() bool {
	inv, ok := s.provider.(snapshotInvalidator)
	if !ok {
		return false
	}
	inv.Invalidate()
	s.logger.Info("ledger cache invalidated", "provider", s.provider.Name())
	return true
}

// ItemNames lists the distinct item names seen in the ledger, for
// auto-suggest. Derived from the provider snapshot so it works for every
// source.
func (s *AllocationService) ItemNames(ctx context.Context) ([]string, error) {
	records, err := s.provider.Records(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		if r.ItemName == "" || seen[r.ItemName] {
			continue
		}
		seen[r.ItemName] = true
		names = append(names, r.ItemName)
	}
	return names, nil
}

func (s *AllocationService) runRecord(runID string, req AllocateRequest, entries []allocator.Entry) *storage.AllocationRun {
	run := &storage.AllocationRun{
		ID:              runID,
		Identifier:      req.Identifier,
		Department:      req.Department,
		Quantity:        req.Quantity.String(),
		MinSharePercent: req.MinSharePercent,
		MinFloorPercent: req.MinFloorPercent,
		Precision:       req.Precision,
		RequestedAt:     s.now().UTC(),
	}
	for _, e := range entries {
		run.Entries = append(run.Entries, storage.RunEntry{
			Department:   e.Department,
			SharePercent: e.SharePercent,
			Allocated:    e.Allocated.String(),
		})
	}
	return run
}
