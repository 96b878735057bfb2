package service

import "context"

// SolverClient invokes the external combinatorial solver. The input is the
// fully assembled invocation document; the returned payload is the decoded
// response body in whatever envelope shape the solver produced; shape
// normalization happens downstream, not here.
type SolverClient interface {
	Solve(ctx context.Context, input map[string]any) (map[string]any, error)
}
