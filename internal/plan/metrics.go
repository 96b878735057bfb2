package plan

import "planmap/internal/domain/entity"

// AggregateMetrics builds the summary panel counts. Explicitly reported
// fields win; anything the solver left out is derived by scanning the
// orders and couriers. The objective is passed through verbatim and never
// derived. A nil return means "no metrics at all" so the UI can hide the
// panel instead of showing misleading zeros.
func AggregateMetrics(resp *SolverResponse) *entity.MetricsSummary {
	if resp == nil {
		return nil
	}
	if resp.Metrics == nil && len(resp.Orders) == 0 && len(resp.Couriers) == 0 {
		return nil
	}

	raw := resp.Metrics
	if raw == nil {
		raw = &RawMetrics{}
	}

	return &entity.MetricsSummary{
		TotalOrders:      pickCount(raw.TotalOrders, func() int { return len(resp.Orders) }),
		AssignedOrders:   pickCount(raw.AssignedOrders, func() int { return countAssignedOrders(resp.Orders) }),
		TotalCouriers:    pickCount(raw.TotalCouriers, func() int { return len(resp.Couriers) }),
		AssignedCouriers: pickCount(raw.AssignedCouriers, func() int { return countAssignedCouriers(resp.Couriers) }),
		CertCount:        pickCount(raw.CertCount, func() int { return countCerts(resp.Orders) }),
		SkipCount:        pickCount(raw.SkipCount, func() int { return countSkips(resp.Orders) }),
		Objective:        raw.Objective,
	}
}

func pickCount(reported *int, derive func() int) int {
	if reported != nil {
		return *reported
	}

	return derive()
}

func countAssignedOrders(orders []entity.OrderPlan) int {
	count := 0
	for i := range orders {
		if orders[i].Assigned() {
			count++
		}
	}

	return count
}

func countAssignedCouriers(couriers []entity.CourierPlan) int {
	count := 0
	for i := range couriers {
		if len(couriers[i].Stops) > 0 {
			count++
		}
	}

	return count
}

func countCerts(orders []entity.OrderPlan) int {
	count := 0
	for i := range orders {
		if orders[i].IsCert {
			count++
		}
	}

	return count
}

func countSkips(orders []entity.OrderPlan) int {
	count := 0
	for i := range orders {
		if orders[i].IsSkipped {
			count++
		}
	}

	return count
}
