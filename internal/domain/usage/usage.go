// Package usage computes department-wise consumption proportions from the
// historical issue ledger.
//
// Given the full ledger and an item identifier, it answers: of everything we
// ever issued of this item, what share went to each department?
//
//	share = 100 * department_total / item_total
//
// Shares always sum to 100 across the result, including after the
// significance threshold is applied.
package usage

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AllDepartments is the sentinel department filter meaning "no filter".
const AllDepartments = "All Departments"

// ErrNoUsage is returned when no ledger rows match the query. It is a normal
// outcome (item never issued, or never issued to the requested department),
// not a failure.
var ErrNoUsage = errors.New("no usage history for item")

// ErrInvalidThreshold rejects a significance threshold outside [0,100).
var ErrInvalidThreshold = errors.New("min share percent must be in [0,100)")

// UsageRecord is one row of the issue ledger. Only Date, ItemSerial,
// ItemName, Department and Quantity participate in the computation; the
// remaining columns ride along for provenance.
type UsageRecord struct {
	Date          time.Time
	ItemSerial    string
	ItemName      string
	IssuedTo      string
	Quantity      decimal.Decimal
	UnitOfMeasure string
	ItemCategory  string
	Reference     string
	Department    string
	BatchNumber   string
	Store         string
	ReceivedBy    string
}

type identifierKind int

const (
	kindSerial identifierKind = iota
	kindName
)

// Identifier is a tagged item identifier: either a numeric serial code or an
// item name. Resolving the tag once up front avoids guessing per row.
type Identifier struct {
	kind  identifierKind
	value string
}

// SerialCode builds an identifier matched against the serial column.
func SerialCode(s string) Identifier {
	return Identifier{kind: kindSerial, value: s}
}

// Name builds an identifier matched against the item name column.
func Name(s string) Identifier {
	return Identifier{kind: kindName, value: s}
}

// ParseIdentifier resolves a raw user-supplied identifier: an all-digit
// string is a serial code, anything else is an item name.
func ParseIdentifier(s string) Identifier {
	s = strings.TrimSpace(s)
	if s != "" && isAllDigits(s) {
		return SerialCode(s)
	}
	return Name(s)
}

// String returns the raw identifier value.
func (id Identifier) String() string { return id.value }

// IsSerial reports whether the identifier targets the serial column.
func (id Identifier) IsSerial() bool { return id.kind == kindSerial }

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Options control the aggregation.
type Options struct {
	// Department restricts the ledger to one department before aggregating.
	// Empty or AllDepartments means no restriction.
	Department string

	// MinSharePercent drops departments whose share falls strictly below the
	// threshold, in [0,100). If dropping would empty the result, the single
	// highest-share department is kept. Remaining shares are renormalized to
	// sum to 100.
	MinSharePercent float64

	// MatchContains enables relaxed substring matching on item names. It is
	// an explicit opt-in and has no effect on serial-code identifiers.
	MatchContains bool
}

// Proportion is one department's share of an item's historical consumption.
type Proportion struct {
	Department   string
	RawQuantity  decimal.Decimal
	SharePercent float64
}

// Compute aggregates the ledger into per-department proportions for the
// given item, sorted by share descending. Returns ErrNoUsage when nothing
// matches or the matched quantities sum to zero.
func Compute(records []UsageRecord, id Identifier, opts Options) ([]Proportion, error) {
	if opts.MinSharePercent < 0 || opts.MinSharePercent >= 100 {
		return nil, ErrInvalidThreshold
	}

	deptFilter := opts.Department
	if deptFilter == AllDepartments {
		deptFilter = ""
	}

	// Group matched rows by department, preserving first-appearance order so
	// ties sort deterministically.
	sums := make(map[string]decimal.Decimal)
	var order []string
	total := decimal.Zero

	for _, r := range records {
		if !matches(r, id, opts.MatchContains) {
			continue
		}
		if deptFilter != "" && !strings.EqualFold(r.Department, deptFilter) {
			continue
		}
		if _, ok := sums[r.Department]; !ok {
			order = append(order, r.Department)
		}
		sums[r.Department] = sums[r.Department].Add(r.Quantity)
		total = total.Add(r.Quantity)
	}

	if len(order) == 0 || total.IsZero() {
		return nil, ErrNoUsage
	}

	result := make([]Proportion, 0, len(order))
	totalF, _ := total.Float64()
	for _, dept := range order {
		raw := sums[dept]
		rawF, _ := raw.Float64()
		result = append(result, Proportion{
			Department:   dept,
			RawQuantity:  raw,
			SharePercent: 100 * rawF / totalF,
		})
	}

	result = applyThreshold(result, opts.MinSharePercent)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SharePercent > result[j].SharePercent
	})

	return result, nil
}

// applyThreshold drops departments below the minimum share and renormalizes
// the survivors to sum to 100. Dropping everything keeps the single largest
// instead. Renormalization only grows shares, so applying the same threshold
// again is a no-op.
func applyThreshold(props []Proportion, minShare float64) []Proportion {
	if minShare <= 0 {
		return props
	}

	kept := props[:0:0]
	for _, p := range props {
		if p.SharePercent >= minShare {
			kept = append(kept, p)
		}
	}

	if len(kept) == 0 {
		largest := props[0]
		for _, p := range props[1:] {
			if p.SharePercent > largest.SharePercent {
				largest = p
			}
		}
		largest.SharePercent = 100
		return []Proportion{largest}
	}

	var sum float64
	for _, p := range kept {
		sum += p.SharePercent
	}
	for i := range kept {
		kept[i].SharePercent = 100 * kept[i].SharePercent / sum
	}
	return kept
}

func matches(r UsageRecord, id Identifier, contains bool) bool {
	switch id.kind {
	case kindSerial:
		return strings.EqualFold(r.ItemSerial, id.value)
	default:
		if contains {
			return strings.Contains(strings.ToLower(r.ItemName), strings.ToLower(id.value))
		}
		return strings.EqualFold(r.ItemName, id.value)
	}
}
