package commands

import (
	"github.com/spf13/cobra"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/national"
)

var (
	nationalDistrict   string
	policyTreeCover    float64
	policyWaterQuality float64
)

// nationalCmd groups the multi-district rollup commands.
var nationalCmd = &cobra.Command{
	Use:   "national",
	Short: "Multi-district rollups",
	Long: `National climate-health rollups.

Subcommands:
  overview  - vulnerability ranking and resilience score
  trends    - climate-health correlation trends
  policy    - tree cover policy simulation
  fraud     - reporting anomaly scan

Example:
  go run ./cmd/riskctl national overview
  go run ./cmd/riskctl national trends --district "South Delhi"
  go run ./cmd/riskctl national policy --tree-cover 12`,
}

func nationalCmdScope() contracts.Scope {
	if nationalDistrict == "" {
		return contracts.Scope{National: true}
	}
	return contracts.ParseScope(nationalDistrict)
}

var nationalOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "National climate-health overview",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := initDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := d.national.Overview(cmd.Context(), nationalCmdScope())
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var nationalTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Climate-health correlation trends",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := initDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := d.national.Trends(cmd.Context(), nationalCmdScope())
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var nationalPolicyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Tree cover policy simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := initDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := d.national.SimulatePolicy(cmd.Context(), nationalCmdScope(), national.PolicyRequest{
			WaterQualityImprovementPct: policyWaterQuality,
			TreeCoverIncreasePct:       policyTreeCover,
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var nationalFraudCmd = &cobra.Command{
	Use:   "fraud",
	Short: "Reporting anomaly scan",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := initDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := d.national.ScanReportingAnomalies(cmd.Context(), nationalCmdScope())
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	rootCmd.AddCommand(nationalCmd)
	nationalCmd.AddCommand(nationalOverviewCmd)
	nationalCmd.AddCommand(nationalTrendsCmd)
	nationalCmd.AddCommand(nationalPolicyCmd)
	nationalCmd.AddCommand(nationalFraudCmd)

	nationalCmd.PersistentFlags().StringVar(&nationalDistrict, "district", "", "narrow scope to one district")
	nationalPolicyCmd.Flags().Float64Var(&policyTreeCover, "tree-cover", 0, "tree cover increase in percent points (0-40)")
	nationalPolicyCmd.Flags().Float64Var(&policyWaterQuality, "water-quality", 0, "water quality improvement in percent points (0-40)")
}
