package usecase

import (
	"context"

	"planmap/internal/domain/entity"
)

// PlanPointInput is one inbound depot or order row.
type PlanPointInput struct {
	OrderID   string  `json:"order_id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Boxes     int     `json:"boxes"`
	CreatedAt string  `json:"created_at_utc,omitempty"`
	ReadyAt   string  `json:"ready_at_utc,omitempty"`
}

// PlanCourierInput is one inbound courier row.
type PlanCourierInput struct {
	CourierID          string `json:"courier_id"`
	Capacity           int    `json:"capacity"`
	AvailableOffsetMin int    `json:"available_offset_min"`
}

// PlanWeightsInput overrides the optimization weights; absent fields keep
// the defaults.
type PlanWeightsInput struct {
	Cert *int `json:"w_cert,omitempty"`
	C2E  *int `json:"w_c2e,omitempty"`
	Skip *int `json:"w_skip,omitempty"`
}

// SavePlanInput is the document accepted when a plan is created or
// replaced under a key.
type SavePlanInput struct {
	StartTime string             `json:"start_time_utc,omitempty"`
	Depot     *PlanPointInput    `json:"depot" validate:"required"`
	Orders    []PlanPointInput   `json:"orders" validate:"required,min=1"`
	Couriers  []PlanCourierInput `json:"couriers"`
	Weights   *PlanWeightsInput  `json:"weights,omitempty"`
}

// PlanView is the full outbound view of one planning session: the stored
// request, the latest canonical result (when a response has been applied)
// and the geometry derived from both.
type PlanView struct {
	Key       string                   `json:"key"`
	StartTime string                   `json:"start_time_utc"`
	Depot     *entity.Point            `json:"depot"`
	Orders    []*entity.Point          `json:"orders"`
	Couriers  []entity.CourierSpec     `json:"couriers"`
	Matrix    [][]int                  `json:"travel_time_matrix_minutes,omitempty"`
	Result    *entity.CanonicalResult  `json:"result,omitempty"`
	Metrics   *entity.MetricsSummary   `json:"metrics,omitempty"`
	Segments  []entity.RouteSegmentDTO `json:"segments,omitempty"`
	Clusters  []entity.Cluster         `json:"clusters,omitempty"`
	Warnings  []string                 `json:"warnings,omitempty"`

	// CaptureRef names the archived capture behind the current result, when
	// one was stored; it can be fed back into a replay.
	CaptureRef string `json:"capture_ref,omitempty"`
}

// PlanUsecase drives a planning session end to end: storing the request,
// fetching the travel-time matrix, invoking the solver and normalizing
// whatever payload comes back: live response, pasted document or an
// enriched-log capture.
type PlanUsecase interface {
	// SavePlan validates and stores the plan request under key, replacing
	// any prior request and clearing a stale result.
	SavePlan(ctx context.Context, key string, input *SavePlanInput) (*PlanView, error)

	// GetPlan returns the stored plan and, when a response has been
	// applied, the canonical result and its geometry.
	GetPlan(ctx context.Context, key string) (*PlanView, error)

	// ListPlans returns every stored plan key.
	ListPlans(ctx context.Context) ([]string, error)

	// BuildMatrix fetches the travel-time matrix for the stored points and
	// saves it with the plan.
	BuildMatrix(ctx context.Context, key string) (*PlanView, error)

	// Solve invokes the external solver with the stored plan and applies
	// its response.
	Solve(ctx context.Context, key string) (*PlanView, error)

	// ApplyResult normalizes a solver response document supplied by the
	// caller (e.g. pasted from the clipboard) against the stored plan.
	ApplyResult(ctx context.Context, key string, payload []byte) (*PlanView, error)

	// Replay normalizes an enriched-log capture. When the capture embeds
	// the solver's request, reconciliation runs against that embedded
	// request; the capture's actual-state coordinates win over declared
	// ones. The raw capture is archived.
	Replay(ctx context.Context, key string, capture []byte) (*PlanView, error)

	// ReplayArchived re-runs a previously archived capture by its
	// reference, with the same semantics as Replay.
	ReplayArchived(ctx context.Context, key string, ref string) (*PlanView, error)

	// ClearResult drops the applied result but keeps the stored request.
	ClearResult(ctx context.Context, key string) (*PlanView, error)

	// DeletePlan removes the whole snapshot under key.
	DeletePlan(ctx context.Context, key string) error
}
