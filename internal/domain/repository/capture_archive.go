package repository

import "context"

// CaptureArchive stores raw enriched-log captures so a replay can be
// re-run later against the original bytes. Backed by a blob bucket; the
// returned name is the bucket object key.
type CaptureArchive interface {
	// Store writes the raw capture under the plan key and returns the
	// archived object name.
	Store(ctx context.Context, planKey string, capture []byte) (string, error)

	// Load returns the raw bytes of a previously archived capture.
	Load(ctx context.Context, name string) ([]byte, error)
}
