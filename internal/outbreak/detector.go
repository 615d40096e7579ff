// Package outbreak detects block-level early-warning signals from daily
// attendance and symptom surveillance rows using z-score anomaly detection
// plus a multi-signal triad rule.
package outbreak

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/features"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// ModelVersion tags outbreak signal responses.
const ModelVersion = "attendance-symptom-anomaly-v2"

// GovernanceNotice is attached to every outbreak signal response.
const GovernanceNotice = "Risk flags are preventive district signals and should be used for surveillance and operational planning only."

// TriggerRule documents the flagging logic on every response.
const TriggerRule = "Risk flag requires multi-signal anomaly across attendance, symptom clusters, and environmental rise at block level."

// Block status bands.
const (
	StatusHigh     = "high"
	StatusElevated = "elevated"
	StatusWatch    = "watch"
)

// defaultWindowDays is the surveillance lookback when none is requested.
const defaultWindowDays = 7

// Triad thresholds: all four must hold for the triad rule to fire.
const (
	triadDropPct     = 4.0
	triadSymptomIdx  = 0.35
	triadEnvDelta    = 0.25
	triadMinSchools  = 2
	anomalyFlagLevel = 45.0
)

// TriadMetrics are the block-mean surveillance signals behind a flag.
type TriadMetrics struct {
	AttendanceDropPct   float64 `json:"attendanceDropPct"`
	SymptomClusterIndex float64 `json:"symptomClusterIndex"`
	EnvRiskRiseIndex    float64 `json:"envRiskRiseIndex"`
	SchoolsReporting    int     `json:"schoolsReporting"`
}

// ZScores are the block anomaly scores against the scope-wide baseline.
type ZScores struct {
	AttendanceDrop float64 `json:"attendanceDrop"`
	SymptomCluster float64 `json:"symptomCluster"`
	EnvRiskRise    float64 `json:"envRiskRise"`
}

// Contributors decomposes the severity score.
type Contributors struct {
	AttendanceDrop    float64 `json:"attendanceDrop"`
	SymptomCluster    float64 `json:"symptomCluster"`
	EnvRiskRise       float64 `json:"envRiskRise"`
	MultiSchoolSpread float64 `json:"multiSchoolSpread"`
	AnomalyStrength   float64 `json:"anomalyStrength"`
}

// BlockSignal is the graded outbreak signal for one block.
type BlockSignal struct {
	BlockName     string       `json:"blockName"`
	Status        string       `json:"status"`
	SeverityScore float64      `json:"severityScore"`
	RiskFlag      bool         `json:"riskFlag"`
	TriadMetrics  TriadMetrics `json:"triadMetrics"`
	ZScores       ZScores      `json:"zScores"`
	Contributors  Contributors `json:"contributors"`
	Confidence    float64      `json:"confidence"`
}

// Result is the outbreak early-warning response for a scope.
type Result struct {
	AnalysisID       string        `json:"analysisId"`
	District         string        `json:"district"`
	GeneratedAt      time.Time     `json:"generatedAt"`
	WindowDays       int           `json:"windowDays"`
	TriggerRule      string        `json:"triggerRule"`
	FlaggedBlocks    []BlockSignal `json:"flaggedBlocks"`
	AllBlocks        []BlockSignal `json:"allBlocks"`
	ModelVersion     string        `json:"modelVersion"`
	GovernanceNotice string        `json:"governanceNotice"`
}

// Detector runs the outbreak early-warning scan.
type Detector struct {
	signals contracts.SignalRepository
	logger  *logger.Logger
}

// NewDetector wires the outbreak detector.
func NewDetector(signals contracts.SignalRepository, log *logger.Logger) *Detector {
	return &Detector{signals: signals, logger: log}
}

// Scan grades every block in scope over the surveillance window. Blocks are
// flagged when the triad rule fires or the anomaly strength alone crosses
// the flag level.
func (d *Detector) Scan(ctx context.Context, scope contracts.Scope, windowDays int) (*Result, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	now := time.Now().UTC()
	rows, err := d.signals.AttendanceSignalsSince(ctx, scope, now.AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, err
	}

	blocks := gradeBlocks(rows)

	flagged := make([]BlockSignal, 0, len(blocks))
	for _, block := range blocks {
		if block.RiskFlag {
			flagged = append(flagged, block)
		}
	}

	return &Result{
		AnalysisID:       uuid.NewString(),
		District:         scope.Label(),
		GeneratedAt:      now,
		WindowDays:       windowDays,
		TriggerRule:      TriggerRule,
		FlaggedBlocks:    flagged,
		AllBlocks:        blocks,
		ModelVersion:     ModelVersion,
		GovernanceNotice: GovernanceNotice,
	}, nil
}

type blockAccum struct {
	drops      []float64
	symptoms   []float64
	envDeltas  []float64
	maxSchools int
}

// gradeBlocks computes the population baseline over every row in the
// window, then grades each block's means against it.
func gradeBlocks(rows []contracts.AttendanceSignalDaily) []BlockSignal {
	var allDrops, allSymptoms, allEnv []float64
	blocks := map[string]*blockAccum{}
	order := []string{}

	for _, row := range rows {
		allDrops = append(allDrops, row.AttendanceDropPct)
		allSymptoms = append(allSymptoms, row.SymptomClusterIndex)
		allEnv = append(allEnv, row.EnvRiskDelta)

		accum, ok := blocks[row.BlockName]
		if !ok {
			accum = &blockAccum{}
			blocks[row.BlockName] = accum
			order = append(order, row.BlockName)
		}
		accum.drops = append(accum.drops, row.AttendanceDropPct)
		accum.symptoms = append(accum.symptoms, row.SymptomClusterIndex)
		accum.envDeltas = append(accum.envDeltas, row.EnvRiskDelta)
		if row.SchoolsReporting > accum.maxSchools {
			accum.maxSchools = row.SchoolsReporting
		}
	}

	dropMean := features.Mean(allDrops)
	dropSigma := features.StdDev(allDrops, dropMean)
	symptomMean := features.Mean(allSymptoms)
	symptomSigma := features.StdDev(allSymptoms, symptomMean)
	envMean := features.Mean(allEnv)
	envSigma := features.StdDev(allEnv, envMean)

	signals := make([]BlockSignal, 0, len(order))
	for _, name := range order {
		accum := blocks[name]

		drop := features.Mean(accum.drops)
		symptom := features.Mean(accum.symptoms)
		env := features.Mean(accum.envDeltas)
		schools := accum.maxSchools

		zDrop := features.ZScore(drop, dropMean, dropSigma)
		zSymptom := features.ZScore(symptom, symptomMean, symptomSigma)
		zEnv := features.ZScore(env, envMean, envSigma)

		anomalyStrength := features.Bounded(
			maxZero(zDrop)*18 + maxZero(zSymptom)*24 + maxZero(zEnv)*24)

		triad := drop >= triadDropPct &&
			symptom >= triadSymptomIdx &&
			env >= triadEnvDelta &&
			schools >= triadMinSchools

		severity := features.Bounded(
			drop*4.8 + symptom*38 + env*40 + float64(schools)*4 + anomalyStrength*0.3)

		signals = append(signals, BlockSignal{
			BlockName:     name,
			Status:        statusFromSeverity(severity),
			SeverityScore: severity,
			RiskFlag:      triad || anomalyStrength >= anomalyFlagLevel,
			TriadMetrics: TriadMetrics{
				AttendanceDropPct:   features.Bounded(drop),
				SymptomClusterIndex: features.Bounded(symptom * 100),
				EnvRiskRiseIndex:    features.Bounded(env * 100),
				SchoolsReporting:    schools,
			},
			ZScores: ZScores{
				AttendanceDrop: features.Round2(zDrop),
				SymptomCluster: features.Round2(zSymptom),
				EnvRiskRise:    features.Round2(zEnv),
			},
			Contributors: Contributors{
				AttendanceDrop:    features.Bounded(drop * 4.8),
				SymptomCluster:    features.Bounded(symptom * 38),
				EnvRiskRise:       features.Bounded(env * 40),
				MultiSchoolSpread: features.Bounded(float64(schools) * 4),
				AnomalyStrength:   anomalyStrength,
			},
			Confidence: features.BoundedIn(
				42+float64(len(accum.drops))*5+float64(schools)*8+anomalyStrength*0.2, 0, 95),
		})
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].SeverityScore > signals[j].SeverityScore
	})
	return signals
}

func statusFromSeverity(severity float64) string {
	switch {
	case severity >= 75:
		return StatusHigh
	case severity >= 50:
		return StatusElevated
	default:
		return StatusWatch
	}
}

func maxZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
