package providers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/usage"
)

// Column order of the exported issue ledger.
var ledgerHeader = []string{
	"DATE", "ITEM_SERIAL", "ITEM NAME", "ISSUED_TO", "QUANTITY",
	"UNIT_OF_MEASURE", "ITEM_CATEGORY", "WEEK", "REFERENCE",
	"DEPARTMENT_CAT", "BATCH NO.", "STORE", "RECEIVED BY",
}

// Date layouts seen in ledger exports.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "01/02/2006 15:04:05"}

// CSVProvider reads the issue ledger from a CSV export of the source
// spreadsheet. Rows with an unparseable quantity are dropped, not zeroed;
// rows older than Since are excluded.
type CSVProvider struct {
	path   string
	since  time.Time
	logger *slog.Logger
}

// NewCSVProvider creates a provider for the ledger export at path. Records
// dated before since are excluded; a zero since keeps everything.
func NewCSVProvider(path string, since time.Time, logger *slog.Logger) *CSVProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVProvider{path: path, since: since, logger: logger}
}

// Name implements Provider.
func (p *CSVProvider) Name() string { return "csv" }

// Records implements Provider.
func (p *CSVProvider) Records(_ context.Context) ([]usage.UsageRecord, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, validated per row

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read ledger header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var records []usage.UsageRecord
	dropped := 0
	line := 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger row: %w", err)
		}
		line++

		rec, ok := parseRow(row)
		if !ok {
			dropped++
			p.logger.Debug("dropping malformed ledger row", "line", line)
			continue
		}
		if !p.since.IsZero() && rec.Date.Before(p.since) {
			continue
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		p.logger.Warn("dropped malformed ledger rows", "count", dropped, "file", p.path)
	}
	p.logger.Info("loaded ledger", "records", len(records), "file", p.path)

	return records, nil
}

func validateHeader(header []string) error {
	if len(header) < len(ledgerHeader) {
		return fmt.Errorf("ledger header has %d columns, want %d", len(header), len(ledgerHeader))
	}
	for i, want := range ledgerHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("ledger header column %d is %q, want %q", i+1, header[i], want)
		}
	}
	return nil
}

// parseRow converts one CSV row. Returns ok=false for rows that must be
// dropped (short rows, non-numeric quantity).
func parseRow(row []string) (usage.UsageRecord, bool) {
	if len(row) < len(ledgerHeader) {
		return usage.UsageRecord{}, false
	}

	qty, err := decimal.NewFromString(strings.TrimSpace(row[4]))
	if err != nil || qty.IsNegative() {
		return usage.UsageRecord{}, false
	}

	date, _ := parseDate(strings.TrimSpace(row[0])) // bad dates keep the row, zero-dated

	return usage.UsageRecord{
		Date:          date,
		ItemSerial:    strings.TrimSpace(row[1]),
		ItemName:      strings.TrimSpace(row[2]),
		IssuedTo:      strings.TrimSpace(row[3]),
		Quantity:      qty,
		UnitOfMeasure: strings.TrimSpace(row[5]),
		ItemCategory:  strings.TrimSpace(row[6]),
		Reference:     strings.TrimSpace(row[8]),
		Department:    strings.TrimSpace(row[9]),
		BatchNumber:   strings.TrimSpace(row[10]),
		Store:         strings.TrimSpace(row[11]),
		ReceivedBy:    strings.TrimSpace(row[12]),
	}, true
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
