package storage

import (
	"time"
)

// AllocationRun is the audit record of one allocation request.
type AllocationRun struct {
	ID              string     `json:"id"`
	Identifier      string     `json:"identifier"`
	Department      string     `json:"department,omitempty"`
	Quantity        string     `json:"quantity"`
	MinSharePercent float64    `json:"min_share_percent"`
	MinFloorPercent float64    `json:"min_floor_percent,omitempty"`
	Precision       int32      `json:"precision"`
	RequestedAt     time.Time  `json:"requested_at"`
	Entries         []RunEntry `json:"entries"`

	// EntriesJSON is the DB representation of Entries.
	EntriesJSON string `json:"-"`
}

// RunEntry is one department row of a recorded allocation.
type RunEntry struct {
	Department   string  `json:"department"`
	SharePercent float64 `json:"share_percent"`
	Allocated    string  `json:"allocated"`
}

// Stats summarizes the stored ledger for the API.
type Stats struct {
	RecordCount     int       `json:"record_count"`
	ItemCount       int       `json:"item_count"`
	DepartmentCount int       `json:"department_count"`
	LatestRecord    time.Time `json:"latest_record"`
	RunCount        int       `json:"run_count"`
}
