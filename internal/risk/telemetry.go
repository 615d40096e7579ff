package risk

import (
	"sync/atomic"

	"github.com/swasthyasetu/risk-engine/internal/features"
)

// Telemetry counts scoring outcomes by source. Counters are atomic so the
// scheduler, API handlers, and recalculation jobs can record concurrently.
type Telemetry struct {
	total     atomic.Int64
	aiService atomic.Int64
	fallback  atomic.Int64
}

// TelemetrySnapshot is a point-in-time read of the counters.
type TelemetrySnapshot struct {
	Total        int64   `json:"total"`
	AIService    int64   `json:"aiService"`
	Fallback     int64   `json:"fallback"`
	FallbackRate float64 `json:"fallbackRate"`
}

// NewTelemetry creates a zeroed telemetry recorder.
func NewTelemetry() *Telemetry {
	return &Telemetry{}
}

// Record counts one scoring outcome by its source tag.
func (t *Telemetry) Record(source string) {
	t.total.Add(1)
	switch source {
	case SourceAIService:
		t.aiService.Add(1)
	case SourceFallback:
		t.fallback.Add(1)
	}
}

// Snapshot reads the counters and derives the fallback rate.
func (t *Telemetry) Snapshot() TelemetrySnapshot {
	total := t.total.Load()
	fallback := t.fallback.Load()

	rate := 0.0
	if total > 0 {
		rate = features.Round4(float64(fallback) / float64(total))
	}

	return TelemetrySnapshot{
		Total:        total,
		AIService:    t.aiService.Load(),
		Fallback:     fallback,
		FallbackRate: rate,
	}
}

// Reset zeroes all counters.
func (t *Telemetry) Reset() {
	t.total.Store(0)
	t.aiService.Store(0)
	t.fallback.Store(0)
}
