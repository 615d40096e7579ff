package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTelemetryRecordAndSnapshot(t *testing.T) {
	telemetry := NewTelemetry()

	telemetry.Record(SourceAIService)
	telemetry.Record(SourceAIService)
	telemetry.Record(SourceAIService)
	telemetry.Record(SourceFallback)

	snapshot := telemetry.Snapshot()
	assert.Equal(t, int64(4), snapshot.Total)
	assert.Equal(t, int64(3), snapshot.AIService)
	assert.Equal(t, int64(1), snapshot.Fallback)
	assert.Equal(t, 0.25, snapshot.FallbackRate)
}

func TestTelemetrySnapshotEmpty(t *testing.T) {
	snapshot := NewTelemetry().Snapshot()
	assert.Equal(t, int64(0), snapshot.Total)
	assert.Equal(t, 0.0, snapshot.FallbackRate)
}

func TestTelemetryFallbackRateRounding(t *testing.T) {
	telemetry := NewTelemetry()
	telemetry.Record(SourceAIService)
	telemetry.Record(SourceAIService)
	telemetry.Record(SourceFallback)

	snapshot := telemetry.Snapshot()
	assert.Equal(t, 0.3333, snapshot.FallbackRate)
}

func TestTelemetryReset(t *testing.T) {
	telemetry := NewTelemetry()
	telemetry.Record(SourceFallback)
	telemetry.Reset()

	snapshot := telemetry.Snapshot()
	assert.Equal(t, int64(0), snapshot.Total)
	assert.Equal(t, int64(0), snapshot.Fallback)
	assert.Equal(t, 0.0, snapshot.FallbackRate)
}
