package main

import (
	"os"

	"github.com/swasthyasetu/risk-engine/cmd/riskctl/commands"
)

// main is the entry point for the risk engine CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
