package risk

import (
	"math"
	"sort"

	"github.com/swasthyasetu/risk-engine/internal/features"
)

// ModelVersionConditions tags condition-inference results.
const ModelVersionConditions = "climate-aware-multi-layer-risk-intelligence-v2-ensemble"

// Condition identifiers ranked by the inference sub-model.
const (
	ConditionWaterBorne     = "WATER_BORNE_RISK"
	ConditionVectorBorne    = "VECTOR_BORNE_RISK"
	ConditionHeatIllness    = "HEAT_ILLNESS_RISK"
	ConditionAirRespiratory = "AIR_RESPIRATORY_RISK"
)

// SignalInput is the richer feature set consumed by condition inference.
// Optional fields use pointers; nil falls back to the documented defaults.
type SignalInput struct {
	BMI               float64
	VaccinationStatus string
	AttendanceRatio   float64

	Temperature          *float64
	Humidity             *float64
	RainfallMm           *float64
	HeatIndex            *float64
	AQI                  *float64
	WaterQualityScore    *float64
	SanitationScore      *float64
	WasteManagementScore *float64

	AttendanceAnomalyPercent *float64
	SymptomClusterCount      *float64
	InspectionDelayDays      *float64
	HazardReports            *float64
}

// ModelBreakdown exposes the ensemble internals for explainability.
type ModelBreakdown struct {
	Environmental float64 `json:"environmental"`
	Institutional float64 `json:"institutional"`
	RFLike        float64 `json:"rfLike"`
	GBLike        float64 `json:"gbLike"`
	AnomalyGate   float64 `json:"anomalyGate"`
}

// ConditionScore is one ranked condition with its evidence.
type ConditionScore struct {
	Condition      string         `json:"condition"`
	Score          float64        `json:"score"`
	Level          string         `json:"level"`
	Confidence     float64        `json:"confidence"`
	Reasons        []string       `json:"reasons"`
	ModelBreakdown ModelBreakdown `json:"modelBreakdown"`
}

// InferenceResult ranks the likely condition categories for a student.
type InferenceResult struct {
	ModelVersion     string           `json:"model_version"`
	PrimaryCondition string           `json:"primary_condition"`
	TriageScore      float64          `json:"triage_score"`
	LikelyConditions []ConditionScore `json:"likely_conditions"`
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// logisticCalibration squashes the blended ensemble score so mid-range
// inputs separate more sharply.
func logisticCalibration(x float64) float64 {
	z := 5.6 * (x - 0.5)
	return features.Clamp(1/(1+math.Exp(-z)), 0, 1)
}

// confidenceFromSignals maps reason-count to a base confidence.
func confidenceFromSignals(reasons []string) float64 {
	switch {
	case len(reasons) >= 3:
		return 0.9
	case len(reasons) == 2:
		return 0.75
	case len(reasons) == 1:
		return 0.6
	default:
		return 0.45
	}
}

// confidenceFromEnsemble boosts the base confidence when the three model
// heads agree, capped at +0.25, final range [0.45, 0.96].
func confidenceFromEnsemble(reasons []string, rfLike, gbLike, anomalyGate float64) float64 {
	base := confidenceFromSignals(reasons)
	dispersion := math.Abs(rfLike-gbLike) + math.Abs(rfLike-anomalyGate) + math.Abs(gbLike-anomalyGate)
	agreementBoost := features.Clamp(0.25-dispersion/3, 0, 0.25)
	return features.Round2(features.Clamp(base+agreementBoost, 0.45, 0.96))
}

// conditionVaccinationFactor is the condition-model variant of the
// vaccination factor; it penalizes partial/delayed status more strongly
// than the composite scorer.
func conditionVaccinationFactor(status string) float64 {
	switch VaccinationFactor(status) {
	case 0.6:
		return 0.65
	case 0.8:
		return 0.85
	default:
		return VaccinationFactor(status)
	}
}

// institutionalVulnerability blends attendance anomaly, symptom clusters,
// inspection delay, and hazard reports, each normalized over fixed domains.
func institutionalVulnerability(input SignalInput) float64 {
	attendanceAnomaly := features.Normalize(
		orDefault(input.AttendanceAnomalyPercent, (1-input.AttendanceRatio)*100), 0, 30)
	symptomClusters := features.Normalize(orDefault(input.SymptomClusterCount, 0), 0, 8)
	inspectionDelay := features.Normalize(orDefault(input.InspectionDelayDays, 0), 0, 30)
	hazards := features.Normalize(orDefault(input.HazardReports, 0), 0, 10)
	return features.Clamp(attendanceAnomaly*0.35+symptomClusters*0.35+inspectionDelay*0.15+hazards*0.15, 0, 1)
}

// anomalyGateScore is the surveillance-anomaly head of the ensemble.
func anomalyGateScore(input SignalInput) float64 {
	attendanceGap := features.Normalize((1-input.AttendanceRatio)*100, 0, 35)
	symptomClusters := features.Normalize(orDefault(input.SymptomClusterCount, 0), 0, 10)
	hazards := features.Normalize(orDefault(input.HazardReports, 0), 0, 12)
	inspectionDelay := features.Normalize(orDefault(input.InspectionDelayDays, 0), 0, 45)
	return features.Clamp(attendanceGap*0.3+symptomClusters*0.4+hazards*0.2+inspectionDelay*0.1, 0, 1)
}

type ensembleResult struct {
	rfLike     float64
	gbLike     float64
	calibrated float64
}

// ensembleScore blends a rule-forest-like head (environmental-heavy), a
// boosted-trees-like head (interaction-aware), and the anomaly gate.
func ensembleScore(environmental, institutional, anomalyGate, interaction float64) ensembleResult {
	rfLike := features.Clamp(environmental*0.6+institutional*0.4, 0, 1)
	gbLike := features.Clamp(environmental*0.45+institutional*0.25+interaction*0.3, 0, 1)
	blended := features.Clamp(rfLike*0.55+gbLike*0.35+anomalyGate*0.1, 0, 1)
	return ensembleResult{
		rfLike:     features.Round4(rfLike),
		gbLike:     features.Round4(gbLike),
		calibrated: features.Round4(logisticCalibration(blended)),
	}
}

func buildConditionScore(condition string, score float64, reasons []string,
	environmental, vulnerability, anomalyGate float64, model ensembleResult) ConditionScore {
	return ConditionScore{
		Condition:  condition,
		Score:      features.Round4(score),
		Level:      ScoreLevel(score),
		Confidence: confidenceFromEnsemble(reasons, model.rfLike, model.gbLike, anomalyGate),
		Reasons:    reasons,
		ModelBreakdown: ModelBreakdown{
			Environmental: features.Round4(environmental),
			Institutional: features.Round4(vulnerability),
			RFLike:        model.rfLike,
			GBLike:        model.gbLike,
			AnomalyGate:   features.Round4(anomalyGate),
		},
	}
}

func waterBorneRisk(input SignalInput) ConditionScore {
	reasons := []string{}
	waterQualityRisk := features.InverseNormalize(orDefault(input.WaterQualityScore, 65), 40, 95)
	sanitationRisk := features.InverseNormalize(orDefault(input.SanitationScore, 70), 40, 95)
	wasteRisk := features.InverseNormalize(orDefault(input.WasteManagementScore, 68), 40, 95)
	rainfallRisk := features.Normalize(orDefault(input.RainfallMm, 50), 0, 250)
	vulnerability := institutionalVulnerability(input)
	anomalyGate := anomalyGateScore(input)

	environmental := features.Clamp(
		waterQualityRisk*0.32+sanitationRisk*0.24+wasteRisk*0.14+rainfallRisk*0.1+vulnerability*0.2, 0, 1)
	interaction := features.Clamp(waterQualityRisk*sanitationRisk+rainfallRisk*0.35, 0, 1)
	model := ensembleScore(environmental, vulnerability, anomalyGate, interaction)
	score := model.calibrated

	if waterQualityRisk >= 0.55 {
		reasons = append(reasons, "LOW_WATER_QUALITY")
	}
	if sanitationRisk >= 0.5 {
		reasons = append(reasons, "POOR_SANITATION")
	}
	if rainfallRisk >= 0.6 {
		reasons = append(reasons, "RAINFALL_CONTAMINATION_RISK")
	}
	if vulnerability >= 0.5 {
		reasons = append(reasons, "INSTITUTIONAL_VULNERABILITY")
	}

	if input.AttendanceRatio < 0.8 {
		score = features.Clamp(score+0.05, 0, 1)
	}

	return buildConditionScore(ConditionWaterBorne, score, reasons, environmental, vulnerability, anomalyGate, model)
}

func vectorBorneRisk(input SignalInput) ConditionScore {
	reasons := []string{}
	temperatureRisk := features.Normalize(orDefault(input.Temperature, 32), 24, 40)
	humidityRisk := features.Normalize(orDefault(input.Humidity, 55), 35, 95)
	rainfallRisk := features.Normalize(orDefault(input.RainfallMm, 50), 0, 300)
	wasteRisk := features.InverseNormalize(orDefault(input.WasteManagementScore, 68), 40, 95)
	vulnerability := institutionalVulnerability(input)
	anomalyGate := anomalyGateScore(input)

	environmental := features.Clamp(
		temperatureRisk*0.24+humidityRisk*0.21+rainfallRisk*0.2+wasteRisk*0.15+vulnerability*0.2, 0, 1)
	interaction := features.Clamp(humidityRisk*rainfallRisk+wasteRisk*0.2+temperatureRisk*0.15, 0, 1)
	model := ensembleScore(environmental, vulnerability, anomalyGate, interaction)
	score := model.calibrated

	if humidityRisk >= 0.55 && rainfallRisk >= 0.45 {
		reasons = append(reasons, "BREEDING_CONDITIONS_FAVORABLE")
	}
	if wasteRisk >= 0.5 {
		reasons = append(reasons, "STAGNATION_WASTE_RISK")
	}
	if vulnerability >= 0.5 {
		reasons = append(reasons, "INSTITUTIONAL_VULNERABILITY")
	}

	if orDefault(input.SymptomClusterCount, 0) >= 3 {
		score = features.Clamp(score+0.08, 0, 1)
	}

	return buildConditionScore(ConditionVectorBorne, score, reasons, environmental, vulnerability, anomalyGate, model)
}

func heatIllnessRisk(input SignalInput) ConditionScore {
	reasons := []string{}
	temperature := orDefault(input.Temperature, 32)
	tempRisk := features.Normalize(temperature, 28, 44)
	heatIndexRisk := features.Normalize(
		orDefault(input.HeatIndex, temperature+orDefault(input.Humidity, 55)*0.06), 30, 52)
	attendanceVulnerability := features.Normalize((1-input.AttendanceRatio)*100, 0, 30)
	vulnerability := institutionalVulnerability(input)
	anomalyGate := anomalyGateScore(input)

	environmental := features.Clamp(
		tempRisk*0.35+heatIndexRisk*0.35+attendanceVulnerability*0.1+vulnerability*0.2, 0, 1)
	interaction := features.Clamp(tempRisk*heatIndexRisk+attendanceVulnerability*0.2, 0, 1)
	model := ensembleScore(environmental, vulnerability, anomalyGate, interaction)
	score := model.calibrated

	if tempRisk >= 0.55 {
		reasons = append(reasons, "HIGH_TEMPERATURE_EXPOSURE")
	}
	if heatIndexRisk >= 0.6 {
		reasons = append(reasons, "HIGH_HEAT_INDEX")
	}
	if vulnerability >= 0.5 {
		reasons = append(reasons, "INSTITUTIONAL_VULNERABILITY")
	}

	return buildConditionScore(ConditionHeatIllness, score, reasons, environmental, vulnerability, anomalyGate, model)
}

func airRespiratoryRisk(input SignalInput) ConditionScore {
	reasons := []string{}
	aqiRisk := features.Normalize(orDefault(input.AQI, 120), 50, 350)
	humidityRisk := features.Normalize(orDefault(input.Humidity, 55), 30, 95)
	heatRisk := features.Normalize(orDefault(input.Temperature, 32), 25, 44)
	vulnerability := institutionalVulnerability(input)
	anomalyGate := anomalyGateScore(input)

	environmental := features.Clamp(aqiRisk*0.5+humidityRisk*0.1+heatRisk*0.1+vulnerability*0.3, 0, 1)
	interaction := features.Clamp(aqiRisk*humidityRisk+heatRisk*0.2+vulnerability*0.2, 0, 1)
	model := ensembleScore(environmental, vulnerability, anomalyGate, interaction)
	score := model.calibrated

	if aqiRisk >= 0.5 {
		reasons = append(reasons, "POOR_AIR_QUALITY")
	}
	if vulnerability >= 0.5 {
		reasons = append(reasons, "INSTITUTIONAL_VULNERABILITY")
	}
	if orDefault(input.SymptomClusterCount, 0) >= 3 {
		reasons = append(reasons, "SYMPTOM_CLUSTER_SIGNAL")
	}

	if conditionVaccinationFactor(input.VaccinationStatus) >= 0.8 {
		score = features.Clamp(score+0.03, 0, 1)
	}

	return buildConditionScore(ConditionAirRespiratory, score, reasons, environmental, vulnerability, anomalyGate, model)
}

// InferLikelyConditions ranks the four condition categories descending by
// score. The top entry becomes the primary condition and triage score.
func InferLikelyConditions(input SignalInput) *InferenceResult {
	results := []ConditionScore{
		waterBorneRisk(input),
		vectorBorneRisk(input),
		heatIllnessRisk(input),
		airRespiratoryRisk(input),
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	triage := features.Clamp(results[0].Score, 0, 1)

	return &InferenceResult{
		ModelVersion:     ModelVersionConditions,
		PrimaryCondition: results[0].Condition,
		TriageScore:      features.Round4(triage),
		LikelyConditions: results,
	}
}
