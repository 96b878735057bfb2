// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"planmap/internal/errors"
)

// ErrSnapshotNotFound is returned when no snapshot exists under a key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository persists plan snapshots as keyed JSON documents. A
// snapshot holds everything needed to restore a planning session: the
// request, the latest raw solver payload and the canonical result. Writes
// replace the prior document wholesale.
type SnapshotRepository interface {
	// Save upserts the snapshot document stored under key.
	Save(ctx context.Context, key string, document []byte) error

	// Find returns the snapshot document stored under key.
	// Returns ErrSnapshotNotFound if the key has never been saved.
	Find(ctx context.Context, key string) ([]byte, error)

	// Delete removes the snapshot stored under key. Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, key string) error

	// ListKeys returns every stored snapshot key.
	ListKeys(ctx context.Context) ([]string, error)
}
