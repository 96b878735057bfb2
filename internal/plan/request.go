package plan

import (
	"fmt"
	"math"
	"strings"

	"planmap/internal/domain/entity"
	apperrors "planmap/internal/domain/errors"
)

// ValidateRequest checks a plan request the way the input table is checked
// before a solve: every problem is reported, not just the first. The empty
// order list and the missing depot are hard failures with their own error
// kinds; everything else is folded into one validation error.
func ValidateRequest(req *entity.PlanRequest) error {
	if req.Depot == nil {
		return apperrors.ErrNoDepot
	}
	if len(req.Orders) == 0 {
		return apperrors.ErrNoOrders
	}

	var problems []string

	for _, point := range req.Points() {
		label := point.Label()
		if !validCoordinate(point.Lat, -90, 90) {
			problems = append(problems, fmt.Sprintf("%s: latitude must be a finite number in [-90, 90]", label))
		}
		if !validCoordinate(point.Lon, -180, 180) {
			problems = append(problems, fmt.Sprintf("%s: longitude must be a finite number in [-180, 180]", label))
		}
		if point.Boxes < 0 {
			problems = append(problems, fmt.Sprintf("%s: boxes must be >= 0", label))
		}
	}

	for _, order := range req.Orders {
		label := order.Label()
		if _, ok := Instant(order.CreatedAt); !ok {
			problems = append(problems, fmt.Sprintf("%s: created_at is not a valid instant", label))
		}
		if _, ok := Instant(order.ReadyAt); !ok {
			problems = append(problems, fmt.Sprintf("%s: ready_at is not a valid instant", label))
		}
	}

	if len(req.Matrix) > 0 {
		expected := len(req.Orders) + 1
		if len(req.Matrix) != expected {
			problems = append(problems, fmt.Sprintf("travel-time matrix must be %dx%d", expected, expected))
		} else {
			for _, row := range req.Matrix {
				if len(row) != expected {
					problems = append(problems, fmt.Sprintf("travel-time matrix must be %dx%d", expected, expected))

					break
				}
			}
		}
	}

	for i, courier := range req.Couriers {
		if courier.Capacity < 0 {
			problems = append(problems, fmt.Sprintf("courier #%d: capacity must be >= 0", i+1))
		}
		if courier.AvailableOffsetMin < 0 {
			problems = append(problems, fmt.Sprintf("courier #%d: available offset must be >= 0", i+1))
		}
	}
	if len(req.Available) > 0 && len(req.Available) != len(req.Couriers) {
		problems = append(problems, "available-offset vector length must match the courier count")
	}

	if len(problems) > 0 {
		return apperrors.ErrValidationFailed.WithDetails(strings.Join(problems, "; "))
	}

	return nil
}

func validCoordinate(value, low, high float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}

	return value >= low && value <= high
}

// BuildSolverInput assembles the solver invocation document. The shape is
// fixed by the solver's API contract and sent verbatim.
func BuildSolverInput(req *entity.PlanRequest) map[string]any {
	orders := make([]map[string]any, len(req.Orders))
	for i, order := range req.Orders {
		orders[i] = map[string]any{
			"order_id":       order.ExternalID,
			"lat":            order.Lat,
			"lon":            order.Lon,
			"boxes":          order.Boxes,
			"created_at_utc": order.CreatedAt,
			"ready_at_utc":   order.ReadyAt,
		}
	}

	couriers := make([]map[string]any, len(req.Couriers))
	for i, courier := range req.Couriers {
		couriers[i] = map[string]any{
			"courier_id":           courier.ID,
			"capacity":             courier.Capacity,
			"available_offset_min": courier.AvailableOffsetMin,
		}
	}

	return map[string]any{
		"inputs": []any{
			map[string]any{
				"data": map[string]any{
					"current_timestamp_utc":      req.StartTime.UTC().Format("2006-01-02T15:04:05Z"),
					"travel_time_matrix_minutes": req.Matrix,
					"orders":                     orders,
					"couriers":                   couriers,
					"optimization_weights": map[string]any{
						"w_cert": req.Weights.Cert,
						"w_c2e":  req.Weights.C2E,
						"w_skip": req.Weights.Skip,
					},
				},
			},
		},
	}
}
