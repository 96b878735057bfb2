package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// PointKind distinguishes the depot from deliverable orders.
type PointKind string

const (
	KindDepot PointKind = "depot"
	KindOrder PointKind = "order"
)

// Point is a map point of the plan: the depot or a single order.
// InternalID is assigned once when the point enters the system and is never
// reused; ExternalID is whatever the producer supplied and may be empty.
type Point struct {
	InternalID uuid.UUID `json:"internal_id"`
	ExternalID string    `json:"external_id,omitempty"`
	Kind       PointKind `json:"kind"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Boxes      int       `json:"boxes"`
	CreatedAt  string    `json:"created_at,omitempty"`
	ReadyAt    string    `json:"ready_at,omitempty"`

	// Seq is the point's index in the original request: 0 for the depot,
	// 1..N for orders. It is the row/column index into the travel-time matrix.
	Seq int `json:"seq"`

	Derived DerivedFields `json:"derived"`
}

// DerivedFields are the solver-derived projections attached to a point.
// They are wiped and rebuilt in full on every applied response; nil means
// "not computed", which the UI renders differently from zero.
type DerivedFields struct {
	GroupID        *int  `json:"group_id,omitempty"`
	RoutePos       *int  `json:"route_pos,omitempty"`
	EtaRelMin      *int  `json:"eta_rel_min,omitempty"`
	PlannedC2EMin  *int  `json:"planned_c2e_min,omitempty"`
	CurrentC2EMin  *int  `json:"current_c2e_min,omitempty"`
	CourierWaitMin *int  `json:"courier_wait_min,omitempty"`
	DepotDirectMin *int  `json:"depot_direct_min,omitempty"`
	Skip           *bool `json:"skip,omitempty"`
	Cert           *bool `json:"cert,omitempty"`
}

// Reset clears every derived field back to "not computed".
func (d *DerivedFields) Reset() {
	*d = DerivedFields{}
}

// Label returns the identifier shown for the point on the map: the external
// id when present, otherwise the sequence number.
func (p *Point) Label() string {
	if p.ExternalID != "" {
		return p.ExternalID
	}

	return fmt.Sprintf("#%d", p.Seq)
}
