package plan

import (
	"testing"

	"planmap/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// projectFixture reconstructs a single-courier plan that routes order A at
// position 1 with delivery 25 minutes after start; any further orders stay
// unrouted.
func projectFixture(req *entity.PlanRequest) *entity.CanonicalResult {
	resp := &SolverResponse{
		Couriers: []entity.CourierPlan{
			{CourierID: "c1", Stops: []entity.PlanStop{{OrderID: "A", Position: 1}}},
		},
		Orders: []entity.OrderPlan{
			{OrderID: "A", AssignedCourierID: "c1", PlannedDeliveryAt: minutesAfterStart(25)},
		},
	}

	result, _ := Reconstruct(req, resp, ResolveTimeRef(nil, testStart))

	return result
}

func TestProject_NilResultResetsEverything(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1"})
	stale := 99
	req.Orders[0].Derived.EtaRelMin = &stale
	req.Depot.Derived.DepotDirectMin = &stale

	Project(req, nil, ResolveTimeRef(nil, testStart))

	assert.Nil(t, req.Orders[0].Derived.EtaRelMin)
	assert.Nil(t, req.Depot.Derived.DepotDirectMin)
}

func TestProject_FillsDerivedFields(t *testing.T) {
	req := testRequest([]string{"A", "B"}, []string{"c1"})
	req.Matrix = [][]int{
		{0, 12, 18},
		{12, 0, 9},
		{18, 9, 0},
	}
	req.Orders[0].CreatedAt = "2024-03-01T11:40:00" // 20 min before start
	req.Orders[0].ReadyAt = "2024-03-01T12:30:00"   // 30 min after start

	Project(req, projectFixture(req), ResolveTimeRef(nil, testStart))

	orderA := req.Orders[0].Derived
	require.NotNil(t, orderA.EtaRelMin)
	assert.Equal(t, 25, *orderA.EtaRelMin)
	require.NotNil(t, orderA.PlannedC2EMin)
	assert.Equal(t, 45, *orderA.PlannedC2EMin) // eta 25 minus created -20
	require.NotNil(t, orderA.CurrentC2EMin)
	assert.Equal(t, 20, *orderA.CurrentC2EMin)
	require.NotNil(t, orderA.CourierWaitMin)
	assert.Equal(t, 5, *orderA.CourierWaitMin) // ready 30 minus eta 25
	require.NotNil(t, orderA.DepotDirectMin)
	assert.Equal(t, 12, *orderA.DepotDirectMin)
	require.NotNil(t, orderA.GroupID)
	assert.Equal(t, 0, *orderA.GroupID)
	require.NotNil(t, orderA.RoutePos)
	assert.Equal(t, 1, *orderA.RoutePos)
	require.NotNil(t, orderA.Skip)
	assert.False(t, *orderA.Skip)

	require.NotNil(t, req.Depot.Derived.DepotDirectMin)
	assert.Equal(t, 0, *req.Depot.Derived.DepotDirectMin)
}

func TestProject_CourierWaitNeverNegative(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1"})
	req.Orders[0].ReadyAt = "2024-03-01T12:05:00" // ready 5, eta 25

	Project(req, projectFixture(req), ResolveTimeRef(nil, testStart))

	wait := req.Orders[0].Derived.CourierWaitMin
	require.NotNil(t, wait)
	assert.Equal(t, 0, *wait)
}

func TestProject_UnroutedOrderMarkedSkipped(t *testing.T) {
	req := testRequest([]string{"A", "B"}, []string{"c1"})

	Project(req, projectFixture(req), ResolveTimeRef(nil, testStart))

	orderB := req.Orders[1].Derived
	require.NotNil(t, orderB.Skip)
	assert.True(t, *orderB.Skip)
	assert.Nil(t, orderB.GroupID)
	assert.Nil(t, orderB.RoutePos)
}

func TestProject_NoMatrixLeavesDepotDirectNil(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1"})

	Project(req, projectFixture(req), ResolveTimeRef(nil, testStart))

	assert.Nil(t, req.Orders[0].Derived.DepotDirectMin)
	assert.Nil(t, req.Depot.Derived.DepotDirectMin)
}

func TestProject_IsIdempotent(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1"})
	req.Matrix = [][]int{{0, 12}, {12, 0}}

	canonical := projectFixture(req)
	ref := ResolveTimeRef(nil, testStart)

	Project(req, canonical, ref)
	first := req.Orders[0].Derived
	Project(req, canonical, ref)

	assert.Equal(t, first, req.Orders[0].Derived)
}
