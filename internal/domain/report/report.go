// Package report projects allocation results into presentation-ready
// summaries. Pure transforms only; no side effects.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/allocator"
)

// Summary condenses an allocation into headline figures.
type Summary struct {
	TotalAllocated  decimal.Decimal `json:"total_allocated"`
	DepartmentCount int             `json:"department_count"`
	MaxSharePercent float64         `json:"max_share_percent"`
	TopDepartment   string          `json:"top_department"`
}

// Summarize computes the summary for a set of allocation entries. Empty
// input yields a zero summary.
func Summarize(entries []allocator.Entry) Summary {
	s := Summary{TotalAllocated: decimal.Zero, DepartmentCount: len(entries)}
	for _, e := range entries {
		s.TotalAllocated = s.TotalAllocated.Add(e.Allocated)
		if e.SharePercent > s.MaxSharePercent {
			s.MaxSharePercent = e.SharePercent
			s.TopDepartment = e.Department
		}
	}
	return s
}

// CSVHeader is the column row for exported allocation tables.
var CSVHeader = []string{"Department", "Proportion (%)", "Allocated Quantity"}

// CSVRows renders entries as export rows matching CSVHeader.
func CSVRows(entries []allocator.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Department,
			fmt.Sprintf("%.2f", e.SharePercent),
			e.Allocated.String(),
		})
	}
	return rows
}
