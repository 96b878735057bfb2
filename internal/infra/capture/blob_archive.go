// Package capture archives raw solver payloads and enriched-log captures
// in a blob bucket for later replay.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"planmap/config"
	"planmap/internal/domain/repository"
	"planmap/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

type blobArchive struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewBlobArchive opens the configured bucket and returns the capture
// archive. When archiving is disabled it returns nil, which the usecase
// treats as "don't archive".
func NewBlobArchive(params Params) (repository.CaptureArchive, error) {
	cfg := params.Config.Capture
	if cfg == nil || !cfg.Enabled {
		params.Logger.Info("capture archiving disabled")

		return nil, nil
	}
	if cfg.BucketURL == "" {
		return nil, errors.New("capture bucket URL is required when archiving is enabled")
	}

	bucket, err := blob.OpenBucket(context.Background(), cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open capture bucket")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &blobArchive{bucket: bucket, logger: params.Logger}, nil
}

// Store writes the raw capture under the plan key and returns the archived
// object name.
func (a *blobArchive) Store(ctx context.Context, planKey string, capture []byte) (string, error) {
	name := fmt.Sprintf("%s/%s.json", planKey, time.Now().UTC().Format("20060102T150405.000000000Z"))

	if err := a.bucket.WriteAll(ctx, name, capture, nil); err != nil {
		return "", errors.Wrap(err, "failed to write capture")
	}

	a.logger.Debug("capture archived", slog.String("name", name), slog.Int("bytes", len(capture)))

	return name, nil
}

// Load returns the raw bytes of a previously archived capture.
func (a *blobArchive) Load(ctx context.Context, name string) ([]byte, error) {
	raw, err := a.bucket.ReadAll(ctx, name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read capture")
	}

	return raw, nil
}
