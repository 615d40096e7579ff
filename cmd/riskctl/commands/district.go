package commands

import (
	"github.com/spf13/cobra"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/district"
)

var (
	hotspotWindowDays int
	outbreakWindow    int
	allocateLimit     int
	forecastMonths    int
	scenarioWaterLift float64
	scenarioWasteLift float64
)

// overviewCmd prints the multi-layer district risk overview.
var overviewCmd = &cobra.Command{
	Use:   "overview [district]",
	Short: "District multi-layer risk overview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := initDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := d.districts.Overview(cmd.Context(), contracts.ParseScope(args[0]))
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

// hotspotsCmd prints geospatial hotspot clusters.
var hotspotsCmd = &cobra.Command{
	Use:   "hotspots [district]",
	Short: "Geospatial hotspot clusters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := initDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := d.hotspots.Hotspots(cmd.Context(), contracts.ParseScope(args[0]), hotspotWindowDays)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

// outbreakCmd prints the block-level outbreak early-warning scan.
var outbreakCmd = &cobra.Command{
	Use:   "outbreak [district]",
	Short: "Outbreak early-warning scan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := initDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := d.outbreaks.Scan(cmd.Context(), contracts.ParseScope(args[0]), outbreakWindow)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

// allocateCmd prints the ranked preventive action plan.
var allocateCmd = &cobra.Command{
	Use:   "allocate [district]",
	Short: "Ranked resource allocation plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := initDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := d.resources.Rank(cmd.Context(), contracts.ParseScope(args[0]), allocateLimit)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

// forecastCmd prints the seasonal risk forecast.
var forecastCmd = &cobra.Command{
	Use:   "forecast [district]",
	Short: "Seasonal risk forecast",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := initDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := d.forecasts.Forecast(cmd.Context(), contracts.ParseScope(args[0]), forecastMonths)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

// scenarioCmd projects the vulnerability index under an environmental lift.
var scenarioCmd = &cobra.Command{
	Use:   "scenario [district]",
	Short: "What-if environmental uplift simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := initDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := d.districts.SimulateScenario(cmd.Context(), contracts.ParseScope(args[0]), district.ScenarioRequest{
			WaterQualityLift:    scenarioWaterLift,
			WasteManagementLift: scenarioWasteLift,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(hotspotsCmd)
	rootCmd.AddCommand(outbreakCmd)
	rootCmd.AddCommand(allocateCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(scenarioCmd)

	hotspotsCmd.Flags().IntVar(&hotspotWindowDays, "window", 0, "field report window in days (default 30)")
	outbreakCmd.Flags().IntVar(&outbreakWindow, "window", 0, "surveillance window in days (default 7)")
	allocateCmd.Flags().IntVar(&allocateLimit, "limit", 10, "max ranked actions")
	forecastCmd.Flags().IntVar(&forecastMonths, "months", 6, "forecast horizon in months (1-12)")
	scenarioCmd.Flags().Float64Var(&scenarioWaterLift, "water-lift", 0, "water quality uplift in points (0-40)")
	scenarioCmd.Flags().Float64Var(&scenarioWasteLift, "waste-lift", 0, "waste management uplift in points (0-40)")
}
