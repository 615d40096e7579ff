package commands

import (
	"github.com/spf13/cobra"

	"github.com/swasthyasetu/risk-engine/internal/risk"
)

var (
	scoreBMI         float64
	scoreVaccination string
	scoreTemperature float64
	scoreAQI         int
	scoreAttendance  float64
)

// scoreCmd scores one observation through the failover provider.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one student observation",
	Long: `Compute a composite risk score for one observation.

Scoring goes through the remote AI service when reachable and falls back
to the local rule model otherwise; the result carries its source.

Example:
  go run ./cmd/riskctl score --bmi 15.2 --vaccination PARTIAL --temperature 41 --aqi 260 --attendance 0.62`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := initDeps()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := d.provider.Score(cmd.Context(), risk.Input{
			BMI:               scoreBMI,
			VaccinationStatus: scoreVaccination,
			Temperature:       scoreTemperature,
			AQI:               scoreAQI,
			AttendanceRatio:   scoreAttendance,
		})
		if err != nil {
			return err
		}

		if result.ConditionSignals == nil {
			temperature := scoreTemperature
			aqi := float64(scoreAQI)
			result.ConditionSignals = risk.InferLikelyConditions(risk.SignalInput{
				BMI:               scoreBMI,
				VaccinationStatus: scoreVaccination,
				AttendanceRatio:   scoreAttendance,
				Temperature:       &temperature,
				AQI:               &aqi,
			})
		}
		return printJSON(result)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().Float64Var(&scoreBMI, "bmi", 20, "body mass index")
	scoreCmd.Flags().StringVar(&scoreVaccination, "vaccination", "COMPLETE", "vaccination status (COMPLETE|PARTIAL|DELAYED|NONE)")
	scoreCmd.Flags().Float64Var(&scoreTemperature, "temperature", 32, "district temperature in celsius")
	scoreCmd.Flags().IntVar(&scoreAQI, "aqi", 120, "district air quality index")
	scoreCmd.Flags().Float64Var(&scoreAttendance, "attendance", 0.9, "attendance ratio in [0,1]")
}
