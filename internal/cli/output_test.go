package cli

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/application/service"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/allocator"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/report"
)

func TestWriteCSV(t *testing.T) {
	entries := []allocator.Entry{
		{Department: "Bakery", SharePercent: 70, Allocated: decimal.NewFromInt(7)},
		{Department: "Kitchen", SharePercent: 30, Allocated: decimal.NewFromInt(3)},
	}
	result := &service.AllocateResult{
		Entries: entries,
		Summary: report.Summarize(entries),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	want := "Department,Proportion (%),Allocated Quantity\n" +
		"Bakery,70.00,7\n" +
		"Kitchen,30.00,3\n"
	assert.Equal(t, want, buf.String())
}
