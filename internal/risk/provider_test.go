package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthyasetu/risk-engine/pkg/config"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

type stubProvider struct {
	result *Result
	err    error
	calls  int
}

func (s *stubProvider) Score(_ context.Context, _ Input) (*Result, error) {
	s.calls++
	return s.result, s.err
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

func TestFailoverProviderUsesRemoteResult(t *testing.T) {
	remote := &stubProvider{result: &Result{
		Score:        0.42,
		Level:        "MEDIUM",
		Source:       SourceAIService,
		ModelVersion: ModelVersionRemote,
	}}
	telemetry := NewTelemetry()
	provider := NewFailoverProvider(remote, LocalProvider{}, telemetry, testLogger())

	result, err := provider.Score(context.Background(), Input{BMI: 20})
	require.NoError(t, err)
	assert.Equal(t, SourceAIService, result.Source)
	assert.Equal(t, ModelVersionRemote, result.ModelVersion)
	assert.Equal(t, 1, remote.calls)

	snapshot := telemetry.Snapshot()
	assert.Equal(t, int64(1), snapshot.AIService)
	assert.Equal(t, int64(0), snapshot.Fallback)
}

func TestFailoverProviderFallsBackOnRemoteError(t *testing.T) {
	remote := &stubProvider{err: errors.New("connection refused")}
	telemetry := NewTelemetry()
	provider := NewFailoverProvider(remote, LocalProvider{}, telemetry, testLogger())

	result, err := provider.Score(context.Background(), Input{
		BMI:               15.2,
		VaccinationStatus: "NONE",
		Temperature:       46,
		AQI:               320,
		AttendanceRatio:   0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, ModelVersionFallback, result.ModelVersion)
	assert.Equal(t, 1, remote.calls)

	snapshot := telemetry.Snapshot()
	assert.Equal(t, int64(1), snapshot.Fallback)
	assert.Equal(t, int64(0), snapshot.AIService)
}

func TestFailoverProviderWithoutRemote(t *testing.T) {
	telemetry := NewTelemetry()
	provider := NewFailoverProvider(nil, LocalProvider{}, telemetry, testLogger())

	result, err := provider.Score(context.Background(), Input{BMI: 21, VaccinationStatus: "COMPLETE", AttendanceRatio: 0.95})
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, int64(1), telemetry.Snapshot().Fallback)
}
