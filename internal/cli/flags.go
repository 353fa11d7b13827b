// Package cli holds the flag parsing, output and wiring shared by the
// command binaries.
package cli

import (
	"flag"
)

// AllocateFlags are the flags for the allocate command.
type AllocateFlags struct {
	Item       string
	Quantity   string
	Department string
	MinShare   float64
	Floor      float64
	Precision  int
	Contains   bool
	CSVPath    string
	CSVOut     string
	Verbose    bool
}

// ParseAllocateFlags parses command line flags for the allocate command.
func ParseAllocateFlags() *AllocateFlags {
	flags := &AllocateFlags{}
	flag.StringVar(&flags.Item, "item", "", "Item serial or name (required)")
	flag.StringVar(&flags.Quantity, "quantity", "", "Available quantity to distribute (required)")
	flag.StringVar(&flags.Department, "department", "", "Restrict to one department")
	flag.Float64Var(&flags.MinShare, "min-share", 1.0, "Drop departments below this usage share (percent)")
	flag.Float64Var(&flags.Floor, "floor", 0, "Guarantee every department this share of the quantity (percent, 0 = off)")
	flag.IntVar(&flags.Precision, "precision", 0, "Decimal places for allocated quantities")
	flag.BoolVar(&flags.Contains, "contains", false, "Relaxed substring matching on item names")
	flag.StringVar(&flags.CSVPath, "csv", "", "Read the ledger from this CSV export instead of the configured source")
	flag.StringVar(&flags.CSVOut, "csv-out", "", "Also write the allocation table to this CSV file (\"-\" for stdout)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// ImportFlags are the flags for the import command.
type ImportFlags struct {
	CSVPath string
	Verbose bool
}

// ParseImportFlags parses command line flags for the import command.
func ParseImportFlags() *ImportFlags {
	flags := &ImportFlags{}
	flag.StringVar(&flags.CSVPath, "csv", "", "Ledger CSV export to import (required)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// ServeFlags are the flags for the API server command.
type ServeFlags struct {
	Port    int
	Verbose bool
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags() *ServeFlags {
	flags := &ServeFlags{}
	flag.IntVar(&flags.Port, "port", 0, "Port to listen on (0 = from config)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}
