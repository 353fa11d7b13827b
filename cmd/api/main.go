// Command api serves the allocation HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/cli"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/config"
)

func main() {
	flags := cli.ParseServeFlags()
	cfg := config.LoadOrEnv()

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
