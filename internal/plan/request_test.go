package plan

import (
	"math"
	"testing"

	apperrors "planmap/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequest_HardFailures(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1"})
	req.Depot = nil
	assert.ErrorIs(t, ValidateRequest(req), apperrors.ErrNoDepot)

	req = testRequest(nil, []string{"c1"})
	assert.ErrorIs(t, ValidateRequest(req), apperrors.ErrNoOrders)
}

func TestValidateRequest_ValidRequestPasses(t *testing.T) {
	req := testRequest([]string{"A", "B"}, []string{"c1"})
	req.Matrix = [][]int{
		{0, 12, 18},
		{12, 0, 9},
		{18, 9, 0},
	}

	assert.NoError(t, ValidateRequest(req))
}

func TestValidateRequest_CollectsEveryProblem(t *testing.T) {
	req := testRequest([]string{"A", "B"}, []string{"c1"})
	req.Orders[0].Lat = 95
	req.Orders[0].Boxes = -1
	req.Orders[1].CreatedAt = "not a time"
	req.Couriers[0].Capacity = -2

	err := ValidateRequest(req)

	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	details := appErr.Details()
	assert.Contains(t, details, "A: latitude")
	assert.Contains(t, details, "A: boxes")
	assert.Contains(t, details, "B: created_at")
	assert.Contains(t, details, "courier #1: capacity")
}

func TestValidateRequest_RejectsNonFiniteCoordinates(t *testing.T) {
	for _, value := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		req := testRequest([]string{"A"}, []string{"c1"})
		req.Orders[0].Lon = value

		assert.ErrorIs(t, ValidateRequest(req), apperrors.ErrValidationFailed)
	}
}

func TestValidateRequest_MatrixDimensions(t *testing.T) {
	req := testRequest([]string{"A", "B"}, []string{"c1"})
	req.Matrix = [][]int{{0, 1}, {1, 0}} // 2x2 for 2 orders, must be 3x3

	err := ValidateRequest(req)

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details(), "3x3")

	req.Matrix = [][]int{
		{0, 12, 18},
		{12, 0}, // ragged row
		{18, 9, 0},
	}
	assert.ErrorIs(t, ValidateRequest(req), apperrors.ErrValidationFailed)
}

func TestValidateRequest_AvailableVectorLength(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1", "c2"})
	req.Available = []int{0, 5, 10}

	err := ValidateRequest(req)

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details(), "available-offset vector")
}

func TestBuildSolverInput_Shape(t *testing.T) {
	req := testRequest([]string{"A"}, []string{"c1"})
	req.Matrix = [][]int{{0, 12}, {12, 0}}

	input := BuildSolverInput(req)

	inputs, ok := input["inputs"].([]any)
	require.True(t, ok)
	require.Len(t, inputs, 1)

	data, ok := inputs[0].(map[string]any)["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2024-03-01T12:00:00Z", data["current_timestamp_utc"])
	assert.Equal(t, req.Matrix, data["travel_time_matrix_minutes"])

	orders, ok := data["orders"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, orders, 1)
	assert.Equal(t, "A", orders[0]["order_id"])
	assert.Equal(t, "2024-03-01T11:40:00", orders[0]["created_at_utc"])

	couriers, ok := data["couriers"].([]map[string]any)
	require.True(t, ok)
	assert.Equal(t, "c1", couriers[0]["courier_id"])
	assert.Equal(t, 10, couriers[0]["available_offset_min"])

	weights, ok := data["optimization_weights"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1000, weights["w_cert"])
	assert.Equal(t, 1, weights["w_c2e"])
	assert.Equal(t, 200, weights["w_skip"])
}
