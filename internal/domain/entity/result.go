package entity

import "time"

// CanonicalResult is the single normalized output structure every response
// envelope variant converges to. It is rebuilt wholesale from the latest
// response; there is no incremental mutation.
type CanonicalResult struct {
	Status   string    `json:"status,omitempty"`
	BaseTime time.Time `json:"base_time"`

	// Routes holds one node-index sequence per courier slot, always starting
	// and ending at node 0 (the depot). Slots with no resolvable stops carry
	// the empty round trip [0, 0]; no slot is ever missing.
	Routes [][]int `json:"routes"`

	// TDeparture is the departure offset in minutes per courier slot,
	// index-aligned with Routes.
	TDeparture []int `json:"t_departure"`

	// TDelivery, Skip and Cert are keyed by 1-based order index. Skip and
	// Cert only carry entries whose value is 1; a missing key is falsy.
	TDelivery map[int]int `json:"t_delivery"`
	Skip      map[int]int `json:"skip"`
	Cert      map[int]int `json:"cert"`

	// AssignedToCourier maps a 1-based order index to the courier slot whose
	// route contains that order exactly once.
	AssignedToCourier map[int]int `json:"assigned_to_courier"`

	Objective *float64        `json:"objective,omitempty"`
	Metrics   *MetricsSummary `json:"metrics,omitempty"`
}

// MetricsSummary carries the solver-reported or derived summary counts.
// Objective is passed through verbatim when reported and never derived.
type MetricsSummary struct {
	TotalOrders      int      `json:"total_orders"`
	AssignedOrders   int      `json:"assigned_orders"`
	TotalCouriers    int      `json:"total_couriers"`
	AssignedCouriers int      `json:"assigned_couriers"`
	CertCount        int      `json:"cert_count"`
	SkipCount        int      `json:"skip_count"`
	Objective        *float64 `json:"objective_value,omitempty"`
}
