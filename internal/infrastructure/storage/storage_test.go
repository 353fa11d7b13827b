package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/usage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ledgerFixture() []usage.UsageRecord {
	return []usage.UsageRecord{
		{
			Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			ItemSerial: "1001", ItemName: "Flour", Department: "Kitchen",
			Quantity: decimal.NewFromInt(30), UnitOfMeasure: "KG",
		},
		{
			Date:       time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			ItemSerial: "1001", ItemName: "Flour", Department: "Bakery",
			Quantity: decimal.NewFromInt(70), UnitOfMeasure: "KG",
		},
		{
			Date:       time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
			ItemSerial: "2002", ItemName: "Sugar", Department: "Pastry",
			Quantity: decimal.NewFromFloat(12.5), UnitOfMeasure: "KG",
		},
	}
}

func TestStorage_SaveAndLoadRecords(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, ledgerFixture()))

	records, err := s.LoadRecords(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Flour", records[0].ItemName)
	assert.Equal(t, "Kitchen", records[0].Department)
	assert.True(t, records[0].Quantity.Equal(decimal.NewFromInt(30)))
	assert.True(t, records[2].Quantity.Equal(decimal.NewFromFloat(12.5)))
}

func TestStorage_LoadRecordsSince(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, ledgerFixture()))

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records, err := s.LoadRecords(ctx, since)
	require.NoError(t, err)
	require.Len(t, records, 2, "the 2023 Sugar row is excluded")
	for _, r := range records {
		assert.Equal(t, "Flour", r.ItemName)
	}
}

func TestStorage_ItemNames(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, ledgerFixture()))

	names, err := s.ItemNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Flour", "Sugar"}, names)
}

func TestStorage_SaveAndGetRun(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	run := &AllocationRun{
		ID:              "run-1",
		Identifier:      "Flour",
		Department:      "All Departments",
		Quantity:        "10",
		MinSharePercent: 1,
		Precision:       0,
		RequestedAt:     time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
		Entries: []RunEntry{
			{Department: "Bakery", SharePercent: 70, Allocated: "7"},
			{Department: "Kitchen", SharePercent: 30, Allocated: "3"},
		},
	}
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Flour", got.Identifier)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "Bakery", got.Entries[0].Department)
	assert.Equal(t, "7", got.Entries[0].Allocated)
}

func TestStorage_GetRunMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetRun(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStorage_ListRuns(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, s.SaveRun(ctx, &AllocationRun{
			ID:          id,
			Identifier:  "Flour",
			Quantity:    "10",
			RequestedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].ID, "newest first")
	assert.Equal(t, "run-b", runs[1].ID)
}

func TestStorage_GetStats(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, ledgerFixture()))
	require.NoError(t, s.SaveRun(ctx, &AllocationRun{
		ID: "run-1", Identifier: "Flour", Quantity: "10", RequestedAt: time.Now(),
	}))

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.RecordCount)
	assert.Equal(t, 2, stats.ItemCount)
	assert.Equal(t, 3, stats.DepartmentCount)
	assert.Equal(t, 1, stats.RunCount)
	assert.Equal(t, 2024, stats.LatestRecord.Year())
}

func TestStorage_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening must not re-run or fail migrations.
	s, err = NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
