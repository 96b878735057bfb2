// Package service defines interfaces for external collaborators the
// planning core talks to over the network.
package service

import (
	"context"

	"planmap/internal/domain/entity"
)

// MatrixProvider computes the travel-time matrix between the depot and the
// orders of a plan. Row and column 0 are the depot; values are whole
// minutes. Implementations must return a square (len(points))² matrix or
// an error, never a ragged one.
type MatrixProvider interface {
	TravelTimeMatrix(ctx context.Context, points []*entity.Point) ([][]int, error)
}
