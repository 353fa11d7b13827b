package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/allocator"
)

func TestSummarize(t *testing.T) {
	entries := []allocator.Entry{
		{Department: "Bakery", SharePercent: 70, Allocated: decimal.NewFromInt(7)},
		{Department: "Kitchen", SharePercent: 30, Allocated: decimal.NewFromInt(3)},
	}

	s := Summarize(entries)
	assert.True(t, s.TotalAllocated.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 2, s.DepartmentCount)
	assert.Equal(t, 70.0, s.MaxSharePercent)
	assert.Equal(t, "Bakery", s.TopDepartment)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.TotalAllocated.IsZero())
	assert.Equal(t, 0, s.DepartmentCount)
	assert.Equal(t, 0.0, s.MaxSharePercent)
	assert.Equal(t, "", s.TopDepartment)
}

func TestCSVRows(t *testing.T) {
	entries := []allocator.Entry{
		{Department: "Bakery", SharePercent: 66.666, Allocated: decimal.NewFromInt(7)},
	}

	rows := CSVRows(entries)
	assert.Equal(t, [][]string{{"Bakery", "66.67", "7"}}, rows)
	assert.Len(t, CSVHeader, 3)
}
