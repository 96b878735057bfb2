// Package solver implements the HTTP client for the external combinatorial
// solver.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"planmap/config"
	"planmap/internal/domain/service"
	"planmap/internal/errors"
)

const defaultTimeout = 2 * time.Minute

type client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates the solver HTTP client.
func NewClient(cfg *config.Config, logger *slog.Logger) (service.SolverClient, error) {
	if cfg.Solver == nil || cfg.Solver.URL == "" {
		return nil, errors.New("solver URL is required")
	}

	timeout := cfg.Solver.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &client{
		url:        cfg.Solver.URL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Solve posts the invocation document and returns the decoded response
// body. The body is decoded as a generic object; envelope normalization is
// the caller's concern.
func (c *client) Solve(ctx context.Context, input map[string]any) (map[string]any, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode solver input")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build solver request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "solver request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read solver response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("solver returned HTTP %d: %s", resp.StatusCode, truncate(raw, 512))
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode solver response")
	}

	c.logger.Info("solver responded",
		slog.Int("bytes", len(raw)),
		slog.Duration("elapsed", time.Since(start)))

	return payload, nil
}

func truncate(raw []byte, limit int) string {
	if len(raw) <= limit {
		return string(raw)
	}

	return string(raw[:limit]) + "..."
}
