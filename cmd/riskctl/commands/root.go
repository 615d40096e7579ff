package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "riskctl",
	Short: "SwasthyaSetu risk engine - preventive school health intelligence",
	Long: `SwasthyaSetu Risk Engine CLI

Climate-aware school health risk intelligence: per-student composite
scoring with AI-service failover, district multi-layer aggregation,
geospatial hotspots, outbreak early warning, resource ranking, seasonal
forecasts, and national rollups.

Usage:
  go run ./cmd/riskctl [command]

Examples:
  go run ./cmd/riskctl api
  go run ./cmd/riskctl overview "South Delhi"
  go run ./cmd/riskctl outbreak all-india --window 7
  go run ./cmd/riskctl scheduler start`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
