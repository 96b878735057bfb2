package entity

import "time"

// CourierSpec describes one courier slot of the plan request.
type CourierSpec struct {
	ID                 string `json:"id,omitempty"`
	Capacity           int    `json:"capacity"`
	AvailableOffsetMin int    `json:"available_offset_min"`
}

// Weights are the objective weights forwarded to the solver.
type Weights struct {
	Cert int `json:"w_cert"`
	C2E  int `json:"w_c2e"`
	Skip int `json:"w_skip"`
}

// DefaultWeights mirrors the product defaults.
var DefaultWeights = Weights{Cert: 1000, C2E: 1, Skip: 200}

// PlanRequest is the validated request a solver response is reconciled
// against: the depot, the order list in matrix order, the courier slots,
// the travel-time matrix in minutes and the nominal start time.
type PlanRequest struct {
	Key       string        `json:"key"`
	StartTime time.Time     `json:"start_time"`
	Depot     *Point        `json:"depot"`
	Orders    []*Point      `json:"orders"`
	Couriers  []CourierSpec `json:"couriers"`

	// Available optionally carries an explicit available-offset vector.
	// Enriched captures sometimes declare more offsets than couriers; the
	// slot count honors the longer of the two.
	Available []int `json:"available,omitempty"`

	// Matrix is the travel-time matrix in minutes, (orders+1) x (orders+1),
	// row/column 0 being the depot.
	Matrix [][]int `json:"matrix,omitempty"`

	Weights Weights `json:"weights"`
}

// Points returns the depot followed by the orders, in matrix order.
func (r *PlanRequest) Points() []*Point {
	points := make([]*Point, 0, len(r.Orders)+1)
	if r.Depot != nil {
		points = append(points, r.Depot)
	}
	points = append(points, r.Orders...)

	return points
}

// AvailableOffsets returns the per-slot available offsets in minutes,
// falling back to the courier specs when no explicit vector is declared.
func (r *PlanRequest) AvailableOffsets() []int {
	if len(r.Available) > 0 {
		return r.Available
	}

	offsets := make([]int, len(r.Couriers))
	for i, courier := range r.Couriers {
		offsets[i] = courier.AvailableOffsetMin
	}

	return offsets
}

// PlanStop is one entry of a courier's delivery sequence.
type PlanStop struct {
	OrderID  string `json:"order_id"`
	Position int    `json:"position"`
}

// CourierPlan is a courier's reported plan once the response envelope has
// been unwrapped. It may reference orders the request never declared and may
// omit orders the request did declare.
type CourierPlan struct {
	CourierID          string     `json:"courier_id"`
	Stops              []PlanStop `json:"stops"`
	PlannedDepartureAt *time.Time `json:"planned_departure_at,omitempty"`
	PlannedReturnAt    *time.Time `json:"planned_return_at,omitempty"`
}

// OrderPlan is an order's reported outcome once the response envelope has
// been unwrapped.
type OrderPlan struct {
	OrderID           string     `json:"order_id"`
	AssignedCourierID string     `json:"assigned_courier_id,omitempty"`
	PlannedDeliveryAt *time.Time `json:"planned_delivery_at,omitempty"`
	IsCert            bool       `json:"is_cert"`
	IsSkipped         bool       `json:"is_skipped"`
}

// Assigned reports whether the order counts as assigned: not skipped and
// carrying a non-empty courier id.
func (o *OrderPlan) Assigned() bool {
	return !o.IsSkipped && o.AssignedCourierID != ""
}
