// Package storage provides SQLite persistence for the issue ledger and the
// allocation audit trail.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/usage"
)

// ErrRunNotFound is returned by GetRun when no run has the requested ID.
var ErrRunNotFound = errors.New("allocation run not found")

// Storage provides SQLite database access.
type Storage struct {
	db *sql.DB
}

// NewStorage opens (creating if needed) the database at dbPath and applies
// pending migrations.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db}
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveRecords bulk-inserts ledger rows inside one transaction.
func (s *Storage) SaveRecords(ctx context.Context, records []usage.UsageRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO usage_records
	(record_date, item_serial, item_name, issued_to, quantity, unit_of_measure,
	 item_category, reference, department, batch_number, store, received_by)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.Date,
			r.ItemSerial,
			r.ItemName,
			r.IssuedTo,
			r.Quantity.String(),
			r.UnitOfMeasure,
			r.ItemCategory,
			r.Reference,
			r.Department,
			r.BatchNumber,
			r.Store,
			r.ReceivedBy,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert ledger row: %w", err)
		}
	}

	return tx.Commit()
}

// LoadRecords returns ledger rows, excluding anything dated before since
// when since is non-zero. Rows whose stored quantity no longer parses are
// skipped, matching the provider contract.
func (s *Storage) LoadRecords(ctx context.Context, since time.Time) ([]usage.UsageRecord, error) {
	query := `
	SELECT record_date, item_serial, item_name, issued_to, quantity,
	       unit_of_measure, item_category, reference, department,
	       batch_number, store, received_by
	FROM usage_records
	`
	args := []any{}
	if !since.IsZero() {
		query += ` WHERE record_date >= ?`
		args = append(args, since)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []usage.UsageRecord
	for rows.Next() {
		var r usage.UsageRecord
		var date sql.NullTime
		var qty string
		err := rows.Scan(
			&date,
			&r.ItemSerial,
			&r.ItemName,
			&r.IssuedTo,
			&qty,
			&r.UnitOfMeasure,
			&r.ItemCategory,
			&r.Reference,
			&r.Department,
			&r.BatchNumber,
			&r.Store,
			&r.ReceivedBy,
		)
		if err != nil {
			return nil, err
		}

		q, err := decimal.NewFromString(qty)
		if err != nil {
			continue
		}
		r.Quantity = q
		if date.Valid {
			r.Date = date.Time
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// ItemNames returns the distinct item names in the ledger, alphabetically.
// This feeds the auto-suggest list.
func (s *Storage) ItemNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT item_name FROM usage_records WHERE item_name != '' ORDER BY item_name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SaveRun records an allocation request and its result.
func (s *Storage) SaveRun(ctx context.Context, run *AllocationRun) error {
	entriesJSON, err := json.Marshal(run.Entries)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO allocation_runs
	(id, identifier, department, quantity, min_share_percent,
	 min_floor_percent, precision, requested_at, entries_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Identifier,
		run.Department,
		run.Quantity,
		run.MinSharePercent,
		run.MinFloorPercent,
		run.Precision,
		run.RequestedAt,
		string(entriesJSON),
	)
	return err
}

// GetRun retrieves one allocation run by ID. ErrRunNotFound distinguishes a
// missing run from a query failure.
func (s *Storage) GetRun(ctx context.Context, id string) (*AllocationRun, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT id, identifier, department, quantity, min_share_percent,
	       min_floor_percent, precision, requested_at, entries_json
	FROM allocation_runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

// ListRuns returns the most recent allocation runs, newest first.
func (s *Storage) ListRuns(ctx context.Context, limit int) ([]*AllocationRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, identifier, department, quantity, min_share_percent,
	       min_floor_percent, precision, requested_at, entries_json
	FROM allocation_runs ORDER BY requested_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []*AllocationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*AllocationRun, error) {
	run := &AllocationRun{}
	var dept sql.NullString
	err := sc.Scan(
		&run.ID,
		&run.Identifier,
		&dept,
		&run.Quantity,
		&run.MinSharePercent,
		&run.MinFloorPercent,
		&run.Precision,
		&run.RequestedAt,
		&run.EntriesJSON,
	)
	if err != nil {
		return nil, err
	}
	run.Department = dept.String
	if run.EntriesJSON != "" {
		_ = json.Unmarshal([]byte(run.EntriesJSON), &run.Entries)
	}
	return run, nil
}

// GetStats summarizes the stored ledger.
func (s *Storage) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	row := s.db.QueryRowContext(ctx, `
	SELECT COUNT(*),
	       COUNT(DISTINCT item_name),
	       COUNT(DISTINCT department)
	FROM usage_records
	`)
	if err := row.Scan(&stats.RecordCount, &stats.ItemCount, &stats.DepartmentCount); err != nil {
		return nil, err
	}

	// Selected as a bare column so the driver parses the timestamp.
	row = s.db.QueryRowContext(ctx,
		`SELECT record_date FROM usage_records ORDER BY record_date DESC LIMIT 1`)
	var latest sql.NullTime
	if err := row.Scan(&latest); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if latest.Valid {
		stats.LatestRecord = latest.Time
	}

	row = s.db.QueryRow(`SELECT COUNT(*) FROM allocation_runs`)
	if err := row.Scan(&stats.RunCount); err != nil {
		return nil, err
	}

	return stats, nil
}
