package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/application/service"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/report"
)

// PrintHeader prints the tool banner.
func PrintHeader(item, quantity string) {
	fmt.Printf("spp-allocate: %s x %s\n\n", item, quantity)
}

// PrintAllocation prints the allocation table and its summary.
func PrintAllocation(result *service.AllocateResult) {
	fmt.Printf("%-24s %14s %20s\n", "Department", "Proportion (%)", "Allocated Quantity")
	fmt.Println(strings.Repeat("-", 60))
	for _, e := range result.Entries {
		fmt.Printf("%-24s %14.2f %20s\n", e.Department, e.SharePercent, e.Allocated.String())
	}
	fmt.Println(strings.Repeat("-", 60))

	s := result.Summary
	fmt.Printf("Total=%s Departments=%d Top=%s (%.2f%%)\n",
		s.TotalAllocated.String(),
		s.DepartmentCount,
		s.TopDepartment,
		s.MaxSharePercent,
	)
}

// WriteCSV writes the allocation table as CSV.
func WriteCSV(w io.Writer, result *service.AllocateResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(report.CSVHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(report.CSVRows(result.Entries)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the allocation table to path, "-" meaning stdout.
func WriteCSVFile(path string, result *service.AllocateResult) error {
	if path == "-" {
		return WriteCSV(os.Stdout, result)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, result); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// PrintNotFound prints the user-facing message for an item with no history.
func PrintNotFound(item string) {
	fmt.Printf("Item %q not found in historical data.\n", item)
	fmt.Println("Check the serial or name, or run the import first.")
}
