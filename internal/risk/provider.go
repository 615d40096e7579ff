package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/swasthyasetu/risk-engine/pkg/config"
	"github.com/swasthyasetu/risk-engine/pkg/httputil"
	"github.com/swasthyasetu/risk-engine/pkg/logger"
)

// ScoreProvider produces a risk result for one student input.
type ScoreProvider interface {
	Score(ctx context.Context, input Input) (*Result, error)
}

// LocalProvider scores with the in-process factor model.
type LocalProvider struct{}

// Score runs the deterministic local model. It never fails.
func (LocalProvider) Score(_ context.Context, input Input) (*Result, error) {
	return ComputeLocal(input), nil
}

// RemoteProvider scores through the external AI scoring service.
type RemoteProvider struct {
	client  *httputil.Client
	baseURL string
	timeout time.Duration
}

// NewRemoteProvider builds a remote provider with a per-request timeout and
// an outbound rate limit from config.
func NewRemoteProvider(cfg *config.Config, log *logger.Logger) *RemoteProvider {
	client := httputil.NewWithTimeout(cfg, log, cfg.AIService.Timeout).
		WithRateLimit(cfg.AIService.MaxRPS).
		DisableRetry()
	return &RemoteProvider{
		client:  client,
		baseURL: cfg.AIService.BaseURL,
		timeout: cfg.AIService.Timeout,
	}
}

// Score posts the input to the scoring service. Any transport error,
// non-2xx status, or undecodable body is returned as an error so the
// caller can fall back.
func (p *RemoteProvider) Score(ctx context.Context, input Input) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.PostJSON(ctx, p.baseURL+"/calculate-risk", input)
	if err != nil {
		return nil, fmt.Errorf("scoring service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode scoring response: %w", err)
	}

	result.Source = SourceAIService
	if result.ModelVersion == "" {
		result.ModelVersion = ModelVersionRemote
	}
	return &result, nil
}

// FailoverProvider tries the remote provider first and falls back to the
// local model on any error, recording which path served each request.
type FailoverProvider struct {
	remote    ScoreProvider
	local     ScoreProvider
	telemetry *Telemetry
	logger    *logger.Logger
}

// NewFailoverProvider wires remote-first scoring with local fallback.
func NewFailoverProvider(remote, local ScoreProvider, telemetry *Telemetry, log *logger.Logger) *FailoverProvider {
	return &FailoverProvider{
		remote:    remote,
		local:     local,
		telemetry: telemetry,
		logger:    log,
	}
}

// Score returns a result from the remote service when it is reachable and
// from the local model otherwise. The returned result always has the same
// schema; only model_version and source reveal the path taken.
func (p *FailoverProvider) Score(ctx context.Context, input Input) (*Result, error) {
	if p.remote != nil {
		result, err := p.remote.Score(ctx, input)
		if err == nil {
			p.telemetry.Record(result.Source)
			return result, nil
		}
		p.logger.WithError(err).Warn("Scoring service unavailable, using fallback model")
	}

	result, err := p.local.Score(ctx, input)
	if err != nil {
		return nil, err
	}
	p.telemetry.Record(result.Source)
	return result, nil
}
