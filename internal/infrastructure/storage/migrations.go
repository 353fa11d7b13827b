package storage

import "fmt"

// Migrations run in order at open; schema_version records the last applied.
var migrations = []string{
	// 1: the imported issue ledger
	`CREATE TABLE IF NOT EXISTS usage_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_date TIMESTAMP,
		item_serial TEXT NOT NULL,
		item_name TEXT NOT NULL,
		issued_to TEXT,
		quantity TEXT NOT NULL,
		unit_of_measure TEXT,
		item_category TEXT,
		reference TEXT,
		department TEXT NOT NULL,
		batch_number TEXT,
		store TEXT,
		received_by TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_usage_records_serial ON usage_records(item_serial);
	CREATE INDEX IF NOT EXISTS idx_usage_records_name ON usage_records(item_name);
	CREATE INDEX IF NOT EXISTS idx_usage_records_date ON usage_records(record_date);`,

	// 2: allocation audit trail
	`CREATE TABLE IF NOT EXISTS allocation_runs (
		id TEXT PRIMARY KEY,
		identifier TEXT NOT NULL,
		department TEXT,
		quantity TEXT NOT NULL,
		min_share_percent REAL,
		min_floor_percent REAL,
		precision INTEGER,
		requested_at TIMESTAMP NOT NULL,
		entries_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_allocation_runs_requested ON allocation_runs(requested_at);`,
}

// runMigrations applies any migrations past the stored schema version.
func (s *Storage) runMigrations() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	row := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
