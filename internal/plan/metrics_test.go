package plan

import (
	"testing"

	"planmap/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestAggregateMetrics_NilWhenNothingReported(t *testing.T) {
	assert.Nil(t, AggregateMetrics(nil))
	assert.Nil(t, AggregateMetrics(&SolverResponse{}))
}

func TestAggregateMetrics_ExplicitFieldsWin(t *testing.T) {
	resp := &SolverResponse{
		Metrics: &RawMetrics{
			TotalOrders:    intPtr(50),
			AssignedOrders: intPtr(47),
		},
		// The derived counts would disagree with the reported ones.
		Orders: []entity.OrderPlan{
			{OrderID: "A", AssignedCourierID: "c1"},
		},
	}

	summary := AggregateMetrics(resp)

	require.NotNil(t, summary)
	assert.Equal(t, 50, summary.TotalOrders)
	assert.Equal(t, 47, summary.AssignedOrders)
}

func TestAggregateMetrics_ExplicitZeroIsNotAbsent(t *testing.T) {
	resp := &SolverResponse{
		Metrics: &RawMetrics{AssignedOrders: intPtr(0)},
		Orders: []entity.OrderPlan{
			{OrderID: "A", AssignedCourierID: "c1"},
		},
	}

	assert.Equal(t, 0, AggregateMetrics(resp).AssignedOrders)
}

func TestAggregateMetrics_DerivesMissingFields(t *testing.T) {
	resp := &SolverResponse{
		Orders: []entity.OrderPlan{
			{OrderID: "A", AssignedCourierID: "c1"},
			{OrderID: "B", AssignedCourierID: "c1", IsCert: true},
			{OrderID: "C", IsSkipped: true},
			// Assigned id plus skip flag: the skip wins.
			{OrderID: "D", AssignedCourierID: "c2", IsSkipped: true},
		},
		Couriers: []entity.CourierPlan{
			{CourierID: "c1", Stops: []entity.PlanStop{{OrderID: "A", Position: 1}}},
			{CourierID: "c2"},
		},
	}

	summary := AggregateMetrics(resp)

	require.NotNil(t, summary)
	assert.Equal(t, 4, summary.TotalOrders)
	assert.Equal(t, 2, summary.AssignedOrders)
	assert.Equal(t, 2, summary.TotalCouriers)
	assert.Equal(t, 1, summary.AssignedCouriers)
	assert.Equal(t, 1, summary.CertCount)
	assert.Equal(t, 2, summary.SkipCount)
}

func TestAggregateMetrics_ObjectiveNeverDerived(t *testing.T) {
	resp := &SolverResponse{
		Orders: []entity.OrderPlan{{OrderID: "A"}},
	}

	summary := AggregateMetrics(resp)

	require.NotNil(t, summary)
	assert.Nil(t, summary.Objective)

	objective := 123.25
	resp.Metrics = &RawMetrics{Objective: &objective}
	summary = AggregateMetrics(resp)
	require.NotNil(t, summary.Objective)
	assert.InDelta(t, 123.25, *summary.Objective, 1e-9)
}
