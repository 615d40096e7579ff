// Package district builds the climate-aware multi-layer district risk
// overview: a feature vector assembled from climate, field report,
// attendance, and recommendation signals, scored by a rule forest and
// decomposed into explainable layers.
package district

import (
	"time"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/features"
)

// FeatureVector is the district-level model input, exposed verbatim in the
// overview response for explainability.
type FeatureVector struct {
	Temperature          float64 `json:"temperature"`
	Humidity             float64 `json:"humidity"`
	Rainfall             float64 `json:"rainfall"`
	HeatIndex            float64 `json:"heatIndex"`
	AQI                  float64 `json:"aqi"`
	WaterQualityScore    float64 `json:"waterQualityScore"`
	SanitationScore      float64 `json:"sanitationScore"`
	WasteManagementScore float64 `json:"wasteManagementScore"`
	StagnantWaterReports float64 `json:"stagnantWaterReports"`
	AttendanceAnomalyPct float64 `json:"attendanceAnomalyPct"`
	SymptomClusterCount  float64 `json:"symptomClusterCount"`
	InspectionDelayDays  float64 `json:"inspectionDelayDays"`
}

// buildFeatureVector derives the model input from raw signal rows. Missing
// signal families degrade to their neutral baselines rather than failing.
func buildFeatureVector(
	climate []contracts.ClimateSample,
	reports []contracts.FieldReport,
	signals []contracts.AttendanceSignalDaily,
	recommendations []contracts.ResourceRecommendation,
	now time.Time,
) FeatureVector {
	temps := make([]float64, 0, len(climate))
	aqiValues := make([]float64, 0, len(climate))
	heatRows := 0
	for _, row := range climate {
		temps = append(temps, row.Temperature)
		aqiValues = append(aqiValues, float64(row.AQI))
		if row.HeatAlertFlag {
			heatRows++
		}
	}
	heatRatio := 0.0
	if len(climate) > 0 {
		heatRatio = float64(heatRows) / float64(len(climate))
	}
	climateFeatures := features.MapClimateFeatures(temps, aqiValues, heatRatio)

	var waterSeverities, sanitationSeverities []float64
	stagnantCount := 0
	for _, report := range reports {
		switch report.ReportType {
		case contracts.ReportWater:
			waterSeverities = append(waterSeverities, float64(report.Severity))
		case contracts.ReportSanitation:
			sanitationSeverities = append(sanitationSeverities, float64(report.Severity))
		case contracts.ReportVector:
			stagnantCount++
		}
	}
	avgSanitationSeverity := features.Mean(sanitationSeverities)

	drops := make([]float64, 0, len(signals))
	symptomIndexes := make([]float64, 0, len(signals))
	for _, signal := range signals {
		drops = append(drops, signal.AttendanceDropPct)
		symptomIndexes = append(symptomIndexes, signal.SymptomClusterIndex)
	}

	delays := make([]float64, 0, len(recommendations))
	for _, rec := range recommendations {
		days := now.Sub(rec.RecommendedDate).Hours() / 24
		if days < 0 {
			days = 0
		}
		delays = append(delays, days)
	}

	return FeatureVector{
		Temperature:          climateFeatures.Temperature,
		Humidity:             climateFeatures.Humidity,
		Rainfall:             climateFeatures.Rainfall,
		HeatIndex:            climateFeatures.HeatIndex,
		AQI:                  climateFeatures.AQI,
		WaterQualityScore:    features.BoundedIn(85-features.Mean(waterSeverities)*4, 20, 100),
		SanitationScore:      features.BoundedIn(82-avgSanitationSeverity*3.5, 20, 100),
		WasteManagementScore: features.BoundedIn(80-avgSanitationSeverity*3.2, 20, 100),
		StagnantWaterReports: features.BoundedIn(float64(stagnantCount), 0, 50),
		AttendanceAnomalyPct: features.Bounded(features.Mean(drops)),
		SymptomClusterCount:  features.Bounded(features.Mean(symptomIndexes) * 10),
		InspectionDelayDays:  features.BoundedIn(features.Mean(delays), 0, 30),
	}
}

// forestProbability runs the fixed rule forest: each rule votes a high or a
// low probability and the ensemble mean is the district risk probability.
func forestProbability(v FeatureVector) float64 {
	vote := func(condition bool, high, low float64) float64 {
		if condition {
			return high
		}
		return low
	}

	votes := []float64{
		vote(v.HeatIndex > 43 || v.AQI > 180 || v.AttendanceAnomalyPct > 14, 0.88, 0.38),
		vote(v.WaterQualityScore < 55 || v.StagnantWaterReports > 3, 0.79, 0.31),
		vote(v.SanitationScore < 60 || v.WasteManagementScore < 58, 0.72, 0.29),
		vote(v.SymptomClusterCount > 5 || v.AttendanceAnomalyPct > 10, 0.77, 0.33),
		vote(v.InspectionDelayDays > 6, 0.71, 0.3),
		vote(v.Rainfall > 110 && v.StagnantWaterReports > 2, 0.81, 0.35),
		vote(v.Temperature > 38 && v.Humidity > 65, 0.75, 0.34),
	}
	return features.BoundedIn(features.Mean(votes), 0, 1)
}
