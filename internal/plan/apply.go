package plan

import (
	"planmap/internal/domain/entity"
	apperrors "planmap/internal/domain/errors"
)

// Outcome carries everything one solver response yields once it has been
// normalized against a request: the canonical result, its metrics, the
// resolved time reference and any warnings raised along the way.
type Outcome struct {
	Response *SolverResponse
	Result   *entity.CanonicalResult
	Ref      TimeRef
	Warnings []string
}

// Apply runs the full normalization pipeline for one solver payload:
// envelope unwrapping, plan reconstruction, metrics aggregation and
// projection of the result back onto the request's points. Malformed
// fields degrade into warnings; only a non-object payload or an empty
// order list fail outright.
func Apply(req *entity.PlanRequest, payload any) (*Outcome, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, apperrors.ErrPayloadNotObject
	}
	if len(req.Orders) == 0 {
		return nil, apperrors.ErrNoOrders
	}

	resp := ParseResponse(obj)
	ref := ResolveTimeRef(resp.CurrentTimestamp, req.StartTime)

	result, warnings := Reconstruct(req, resp, ref)
	result.Metrics = AggregateMetrics(resp)

	Project(req, result, ref)

	return &Outcome{
		Response: resp,
		Result:   result,
		Ref:      ref,
		Warnings: warnings,
	}, nil
}
