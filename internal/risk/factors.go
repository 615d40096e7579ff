// Package risk computes per-student composite risk scores. Scoring is
// normally delegated to the remote AI scoring service; the local factor
// model here is both the fallback and the reference semantics, so the two
// paths always agree on schema and factor meaning.
package risk

import "strings"

// Factor weights of the composite score.
const (
	weightBMI         = 0.3
	weightVaccination = 0.2
	weightTemperature = 0.25
	weightAQI         = 0.15
	weightAttendance  = 0.1
)

// Reason-code thresholds on the weighted contributions.
const (
	reasonThresholdBMI         = 0.2
	reasonThresholdVaccination = 0.14
	reasonThresholdTemperature = 0.16
	reasonThresholdAQI         = 0.12
	reasonThresholdAttendance  = 0.05
)

// BMIFactor maps BMI to a risk contribution in [0,1]. Buckets follow the
// WHO underweight/overweight bands.
func BMIFactor(bmi float64) float64 {
	switch {
	case bmi < 16.5:
		return 1.0
	case bmi < 18.5:
		return 0.7
	case bmi <= 24.9:
		return 0.2
	case bmi <= 29.9:
		return 0.6
	default:
		return 0.9
	}
}

// VaccinationFactor maps a vaccination status string (case-insensitive) to
// a risk contribution. Unknown statuses score 0.7.
func VaccinationFactor(status string) float64 {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "COMPLETE":
		return 0.0
	case "PARTIAL":
		return 0.6
	case "DELAYED":
		return 0.8
	case "NONE":
		return 1.0
	default:
		return 0.7
	}
}

// HeatFactor maps temperature in °C to a risk contribution.
func HeatFactor(temperature float64) float64 {
	switch {
	case temperature >= 45:
		return 1.0
	case temperature >= 40:
		return 0.8
	case temperature >= 35:
		return 0.5
	default:
		return 0.2
	}
}

// AQIFactor maps an air quality index to a risk contribution.
func AQIFactor(aqi int) float64 {
	switch {
	case aqi >= 300:
		return 1.0
	case aqi >= 200:
		return 0.8
	case aqi >= 120:
		return 0.5
	default:
		return 0.2
	}
}

// AttendanceFactor maps an attendance ratio in [0,1] to a risk contribution.
func AttendanceFactor(ratio float64) float64 {
	return 1.0 - ratio
}

// ScoreLevel maps a composite score to its level band.
func ScoreLevel(score float64) string {
	switch {
	case score >= 0.7:
		return "HIGH"
	case score >= 0.4:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// buildReasonCodes emits reason codes for each weighted contribution that
// crosses its threshold, or BASELINE_LOW_RISK when none do.
func buildReasonCodes(c Contributions) []string {
	reasons := make([]string, 0, 5)
	if c.BMI >= reasonThresholdBMI {
		reasons = append(reasons, "BMI_OUT_OF_HEALTHY_RANGE")
	}
	if c.Vaccination >= reasonThresholdVaccination {
		reasons = append(reasons, "VACCINATION_DELAY_OR_INCOMPLETE")
	}
	if c.Temperature >= reasonThresholdTemperature {
		reasons = append(reasons, "HEAT_STRESS_RISK")
	}
	if c.AQI >= reasonThresholdAQI {
		reasons = append(reasons, "AIR_QUALITY_EXPOSURE")
	}
	if c.Attendance >= reasonThresholdAttendance {
		reasons = append(reasons, "LOW_ATTENDANCE_PATTERN")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "BASELINE_LOW_RISK")
	}
	return reasons
}
