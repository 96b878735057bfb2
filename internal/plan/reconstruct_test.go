package plan

import (
	"testing"
	"time"

	"planmap/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testOrder(id string, seq int) *entity.Point {
	return &entity.Point{
		InternalID: uuid.New(),
		ExternalID: id,
		Kind:       entity.KindOrder,
		Lat:        55.75 + float64(seq)*0.01,
		Lon:        37.62 + float64(seq)*0.01,
		Boxes:      1,
		CreatedAt:  "2024-03-01T11:40:00",
		ReadyAt:    "2024-03-01T12:10:00",
		Seq:        seq,
	}
}

func testRequest(orderIDs []string, courierIDs []string) *entity.PlanRequest {
	req := &entity.PlanRequest{
		Key:       "test",
		StartTime: testStart,
		Depot: &entity.Point{
			InternalID: uuid.New(),
			Kind:       entity.KindDepot,
			Lat:        55.75,
			Lon:        37.62,
		},
		Weights: entity.DefaultWeights,
	}
	for i, id := range orderIDs {
		req.Orders = append(req.Orders, testOrder(id, i+1))
	}
	for _, id := range courierIDs {
		req.Couriers = append(req.Couriers, entity.CourierSpec{ID: id, Capacity: 5, AvailableOffsetMin: 10})
	}

	return req
}

func minutesAfterStart(m int) *time.Time {
	t := testStart.Add(time.Duration(m) * time.Minute)

	return &t
}

func TestReconstruct_BasicRoute(t *testing.T) {
	req := testRequest([]string{"A", "B"}, []string{"c1"})
	resp := &SolverResponse{
		Status: "completed",
		Couriers: []entity.CourierPlan{
			{
				CourierID:          "c1",
				PlannedDepartureAt: minutesAfterStart(5),
				Stops: []entity.PlanStop{
					{OrderID: "B", Position: 2},
					{OrderID: "A", Position: 1},
				},
			},
		},
		Orders: []entity.OrderPlan{
			{OrderID: "A", AssignedCourierID: "c1", PlannedDeliveryAt: minutesAfterStart(20)},
			{OrderID: "B", AssignedCourierID: "c1", PlannedDeliveryAt: minutesAfterStart(35)},
		},
	}

	ref := ResolveTimeRef(nil, testStart)
	result, warnings := Reconstruct(req, resp, ref)

	assert.Empty(t, warnings)
	require.Len(t, result.Routes, 1)
	// Stops sort by position, so A precedes B despite producer order.
	assert.Equal(t, []int{0, 1, 2, 0}, result.Routes[0])
	assert.Equal(t, []int{5}, result.TDeparture)
	assert.Equal(t, map[int]int{1: 20, 2: 35}, result.TDelivery)
	assert.Equal(t, map[int]int{1: 0, 2: 0}, result.AssignedToCourier)
	assert.Equal(t, "completed", result.Status)
}

func TestReconstruct_EmptyRoundTripForIdleCourier(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1", "c2"})
	resp := &SolverResponse{
		Couriers: []entity.CourierPlan{
			{CourierID: "c1", Stops: []entity.PlanStop{{OrderID: "A", Position: 1}}},
		},
	}

	result, _ := Reconstruct(req, resp, ResolveTimeRef(nil, testStart))

	require.Len(t, result.Routes, 2)
	assert.Equal(t, []int{0, 1, 0}, result.Routes[0])
	assert.Equal(t, []int{0, 0}, result.Routes[1])
}

func TestReconstruct_SlotCountHonorsResponseAndOffsets(t *testing.T) {
	tests := []struct {
		name      string
		couriers  []string
		available []int
		respN     int
		want      int
	}{
		{name: "request wins", couriers: []string{"a", "b", "c"}, respN: 1, want: 3},
		{name: "response wins", couriers: []string{"a"}, respN: 3, want: 3},
		{name: "offset vector wins", couriers: []string{"a"}, available: []int{0, 5, 10, 15}, respN: 1, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest([]string{"A"}, tt.couriers)
			req.Available = tt.available
			resp := &SolverResponse{}
			for i := 0; i < tt.respN; i++ {
				resp.Couriers = append(resp.Couriers, entity.CourierPlan{})
			}

			result, _ := Reconstruct(req, resp, ResolveTimeRef(nil, testStart))
			assert.Len(t, result.Routes, tt.want)
			assert.Len(t, result.TDeparture, tt.want)
		})
	}
}

func TestReconstruct_PositionalMatchWhenIDsUnknown(t *testing.T) {
	req := testRequest([]string{"A", "B"}, []string{"c1", "c2"})
	resp := &SolverResponse{
		Couriers: []entity.CourierPlan{
			{CourierID: "x9", Stops: []entity.PlanStop{{OrderID: "A", Position: 1}}},
			{CourierID: "y7", Stops: []entity.PlanStop{{OrderID: "B", Position: 1}}},
		},
	}

	result, _ := Reconstruct(req, resp, ResolveTimeRef(nil, testStart))

	assert.Equal(t, []int{0, 1, 0}, result.Routes[0])
	assert.Equal(t, []int{0, 2, 0}, result.Routes[1])
}

func TestReconstruct_UnknownOrderDiscardedWithWarning(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1"})
	resp := &SolverResponse{
		Couriers: []entity.CourierPlan{
			{CourierID: "c1", Stops: []entity.PlanStop{
				{OrderID: "A", Position: 1},
				{OrderID: "GHOST", Position: 2},
			}},
		},
	}

	result, warnings := Reconstruct(req, resp, ResolveTimeRef(nil, testStart))

	assert.Equal(t, []int{0, 1, 0}, result.Routes[0])
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "GHOST")
}

func TestReconstruct_DuplicateStopDeduplicated(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1", "c2"})
	resp := &SolverResponse{
		Couriers: []entity.CourierPlan{
			{CourierID: "c1", Stops: []entity.PlanStop{{OrderID: "A", Position: 1}}},
			{CourierID: "c2", Stops: []entity.PlanStop{{OrderID: "A", Position: 1}}},
		},
	}

	result, warnings := Reconstruct(req, resp, ResolveTimeRef(nil, testStart))

	assert.Equal(t, []int{0, 1, 0}, result.Routes[0])
	assert.Equal(t, []int{0, 0}, result.Routes[1])
	assert.Equal(t, map[int]int{1: 0}, result.AssignedToCourier)
	require.Len(t, warnings, 1)
}

func TestReconstruct_SecondPassFillsUnroutedOrders(t *testing.T) {
	req := testRequest([]string{"A", "B"}, []string{"c1"})
	resp := &SolverResponse{
		Couriers: []entity.CourierPlan{
			{CourierID: "c1", Stops: []entity.PlanStop{{OrderID: "A", Position: 1}}},
		},
		// B sits outside any delivery sequence: an external skip record.
		Orders: []entity.OrderPlan{
			{OrderID: "B", IsSkipped: true, IsCert: true},
		},
	}

	result, _ := Reconstruct(req, resp, ResolveTimeRef(nil, testStart))

	assert.Equal(t, 1, result.Skip[2])
	assert.Equal(t, 1, result.Cert[2])
	// The skip record fills fields but never creates a route position.
	assert.Equal(t, []int{0, 1, 0}, result.Routes[0])
	assert.NotContains(t, result.AssignedToCourier, 2)
}

func TestReconstruct_SkippedOrderExcludedFromAssignment(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1"})
	resp := &SolverResponse{
		Couriers: []entity.CourierPlan{
			{CourierID: "c1", Stops: []entity.PlanStop{{OrderID: "A", Position: 1}}},
		},
		Orders: []entity.OrderPlan{{OrderID: "A", IsSkipped: true}},
	}

	result, _ := Reconstruct(req, resp, ResolveTimeRef(nil, testStart))

	assert.NotContains(t, result.AssignedToCourier, 1)
	assert.Equal(t, 1, result.Skip[1])
}

func TestReconstruct_DepartureFallsBackToRequestOffset(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1"})
	resp := &SolverResponse{
		Couriers: []entity.CourierPlan{
			{CourierID: "c1", Stops: []entity.PlanStop{{OrderID: "A", Position: 1}}},
		},
	}

	result, _ := Reconstruct(req, resp, ResolveTimeRef(nil, testStart))

	// The courier spec declares AvailableOffsetMin 10 and the response
	// omits the departure.
	assert.Equal(t, []int{10}, result.TDeparture)
}

func TestReconstruct_ObjectivePassedThrough(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1"})
	objective := 99.5
	resp := &SolverResponse{Metrics: &RawMetrics{Objective: &objective}}

	result, _ := Reconstruct(req, resp, ResolveTimeRef(nil, testStart))

	require.NotNil(t, result.Objective)
	assert.InDelta(t, 99.5, *result.Objective, 1e-9)
}
