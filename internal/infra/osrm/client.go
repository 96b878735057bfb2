// Package osrm implements the travel-time matrix provider on top of the
// OSRM Table API.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"planmap/config"
	"planmap/internal/domain/entity"
	"planmap/internal/domain/service"
	"planmap/internal/errors"
)

const defaultTimeout = 15 * time.Second

type client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates the OSRM-backed matrix provider.
func NewClient(cfg *config.Config, logger *slog.Logger) (service.MatrixProvider, error) {
	if cfg.OSRM == nil || cfg.OSRM.BaseURL == "" {
		return nil, errors.New("osrm base URL is required")
	}

	timeout := cfg.OSRM.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &client{
		baseURL:    strings.TrimRight(cfg.OSRM.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// tableResponse is the subset of the OSRM table response this client reads.
type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Durations [][]*float64 `json:"durations"`
}

// TravelTimeMatrix queries the Table API for all point pairs and converts
// the second-based durations to whole minutes.
func (c *client) TravelTimeMatrix(ctx context.Context, points []*entity.Point) ([][]int, error) {
	if len(points) == 0 {
		return nil, errors.New("no points to build a matrix for")
	}

	url := c.tableURL(points)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build OSRM request")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "OSRM request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read OSRM response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("OSRM returned HTTP %d", resp.StatusCode)
	}

	var table tableResponse
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, errors.Wrap(err, "failed to decode OSRM response")
	}
	if table.Code != "Ok" {
		return nil, errors.Errorf("OSRM error: %s %s", table.Code, table.Message)
	}

	matrix, err := toMinuteMatrix(table.Durations, len(points))
	if err != nil {
		return nil, err
	}

	c.logger.Info("travel-time matrix built",
		slog.Int("points", len(points)),
		slog.Duration("elapsed", time.Since(start)))

	return matrix, nil
}

// tableURL formats the Table API URL; OSRM expects lon,lat pairs.
func (c *client) tableURL(points []*entity.Point) string {
	pairs := make([]string, len(points))
	for i, point := range points {
		pairs[i] = fmt.Sprintf("%.6f,%.6f", point.Lon, point.Lat)
	}

	return fmt.Sprintf("%s/table/v1/driving/%s?annotations=duration", c.baseURL, strings.Join(pairs, ";"))
}

// toMinuteMatrix validates the duration table is square with the expected
// dimension and converts seconds to rounded minutes. A null duration means
// OSRM found no route between the pair, which makes the matrix unusable.
func toMinuteMatrix(durations [][]*float64, size int) ([][]int, error) {
	if len(durations) != size {
		return nil, errors.Errorf("OSRM matrix has %d rows, expected %d", len(durations), size)
	}

	matrix := make([][]int, size)
	for i, row := range durations {
		if len(row) != size {
			return nil, errors.Errorf("OSRM matrix row %d has %d columns, expected %d", i, len(row), size)
		}
		matrix[i] = make([]int, size)
		for j, seconds := range row {
			if seconds == nil {
				return nil, errors.Errorf("OSRM found no route between points %d and %d", i, j)
			}
			matrix[i][j] = int(math.Round(*seconds / 60))
		}
	}

	return matrix, nil
}
