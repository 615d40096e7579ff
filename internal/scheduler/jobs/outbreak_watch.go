package jobs

import (
	"context"
	"fmt"

	"github.com/swasthyasetu/risk-engine/internal/api/ws"
	"github.com/swasthyasetu/risk-engine/internal/contracts"
	"github.com/swasthyasetu/risk-engine/internal/outbreak"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// OutbreakWatchJob scans all districts hourly and pushes newly flagged
// blocks to connected dashboard clients.
type OutbreakWatchJob struct {
	detector *outbreak.Detector
	hub      *ws.Hub
	logger   *logger.Logger
}

// NewOutbreakWatchJob creates the outbreak watch job.
func NewOutbreakWatchJob(detector *outbreak.Detector, hub *ws.Hub, log *logger.Logger) *OutbreakWatchJob {
	return &OutbreakWatchJob{detector: detector, hub: hub, logger: log}
}

// Name returns the job name.
func (j *OutbreakWatchJob) Name() string {
	return "outbreak_watch"
}

// Schedule runs hourly.
func (j *OutbreakWatchJob) Schedule() string {
	return "0 0 * * * *"
}

// alertEvent is the broadcast payload for one flagged block.
type alertEvent struct {
	Event            string  `json:"event"`
	District         string  `json:"district"`
	BlockName        string  `json:"blockName"`
	Status           string  `json:"status"`
	SeverityScore    float64 `json:"severityScore"`
	TriggerRule      string  `json:"triggerRule"`
	GovernanceNotice string  `json:"governanceNotice"`
}

// Run scans the national scope and broadcasts every flagged block.
func (j *OutbreakWatchJob) Run(ctx context.Context) error {
	result, err := j.detector.Scan(ctx, contracts.Scope{National: true}, 0)
	if err != nil {
		return fmt.Errorf("outbreak scan: %w", err)
	}

	for _, block := range result.FlaggedBlocks {
		event := alertEvent{
			Event:            "outbreak_signal",
			District:         result.District,
			BlockName:        block.BlockName,
			Status:           block.Status,
			SeverityScore:    block.SeverityScore,
			TriggerRule:      result.TriggerRule,
			GovernanceNotice: result.GovernanceNotice,
		}
		if err := j.hub.Broadcast(event); err != nil {
			j.logger.WithError(err).Warn("Failed to broadcast outbreak signal")
		}
	}

	j.logger.WithField("flagged_blocks", len(result.FlaggedBlocks)).Info("Outbreak watch scan completed")
	return nil
}
