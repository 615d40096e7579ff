package contracts

import "time"

// VaccinationStatus is the recorded immunization state of a student.
type VaccinationStatus string

const (
	VaccinationComplete VaccinationStatus = "COMPLETE"
	VaccinationPartial  VaccinationStatus = "PARTIAL"
	VaccinationDelayed  VaccinationStatus = "DELAYED"
	VaccinationNone     VaccinationStatus = "NONE"
)

// ReportType classifies a district field report.
type ReportType string

const (
	ReportWater      ReportType = "WATER"
	ReportSanitation ReportType = "SANITATION"
	ReportVector     ReportType = "VECTOR"
	ReportHeat       ReportType = "HEAT"
)

// AlertStatus is the lifecycle state of an environmental alert.
type AlertStatus string

const (
	AlertActive  AlertStatus = "ACTIVE"
	AlertExpired AlertStatus = "EXPIRED"
)

// ActionType classifies a resource recommendation.
type ActionType string

const (
	ActionInspection   ActionType = "INSPECTION"
	ActionWaterTesting ActionType = "WATER_TESTING"
	ActionFumigation   ActionType = "FUMIGATION"
)

// StudentObservation is the per-student health snapshot read by the scorer.
// RiskScore is the last computed composite risk in [0,1].
type StudentObservation struct {
	StudentID         string
	SchoolID          string
	BMI               float64
	VaccinationStatus VaccinationStatus
	AttendanceRatio   float64
	RiskScore         float64
}

// ClimateSample is one row of the append-only per-district climate series.
type ClimateSample struct {
	District      string
	Date          time.Time
	Temperature   float64
	AQI           int
	HeatAlertFlag bool
}

// GeoProfile is the static geographic placement of a school.
type GeoProfile struct {
	SchoolID  string
	Latitude  float64
	Longitude float64
	BlockName string
	WardName  string
}

// School is the aggregated read shape the risk pipelines consume: identity,
// infrastructure score, student risk scores, and optional geo placement.
type School struct {
	ID            string
	Name          string
	District      string
	InfraScore    float64
	StudentScores []float64
	Geo           *GeoProfile
}

// AvgStudentRisk returns the mean student risk score, 0 when no students.
func (s *School) AvgStudentRisk() float64 {
	if len(s.StudentScores) == 0 {
		return 0
	}
	sum := 0.0
	for _, score := range s.StudentScores {
		sum += score
	}
	return sum / float64(len(s.StudentScores))
}

// BlockName returns the school's block, or a placeholder when geo is absent.
func (s *School) BlockName() string {
	if s.Geo == nil || s.Geo.BlockName == "" {
		return "Unknown Block"
	}
	return s.Geo.BlockName
}

// FieldReport is one immutable environmental field report event.
type FieldReport struct {
	District   string
	BlockName  string
	ReportType ReportType
	Severity   int // 0..10
	SourceRole string
	ReportedAt time.Time
}

// AttendanceSignalDaily is one row per block per day of attendance and
// symptom surveillance signals.
type AttendanceSignalDaily struct {
	District            string
	BlockName           string
	Date                time.Time
	SchoolsReporting    int
	AttendanceDropPct   float64
	SymptomClusterIndex float64
	EnvRiskDelta        float64
}

// EnvironmentalAlert is an issued district environmental alert.
type EnvironmentalAlert struct {
	District  string
	AlertType string
	Severity  int
	StartsAt  time.Time
	EndsAt    time.Time
	Status    AlertStatus
}

// ResourceRecommendation is a stored preventive action recommendation.
// The ranker re-scores it; the stored PriorityScore is input only.
type ResourceRecommendation struct {
	ID              string
	District        string
	BlockName       string
	ActionType      ActionType
	PriorityScore   float64
	RecommendedDate time.Time
	Status          string
	Explanation     string
}
