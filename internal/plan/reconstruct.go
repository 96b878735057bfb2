package plan

import (
	"fmt"
	"sort"

	"planmap/internal/domain/entity"
)

// Reconstruct builds the canonical result from a parsed response and the
// request it answers. Route arrays and courier slots stay in 1:1
// index-aligned correspondence: a courier without resolvable stops gets the
// empty round trip [0, 0], never a missing slot.
//
// Warnings report data the response carried but the request cannot account
// for (unknown order ids, duplicate stops, unmatched couriers); they never
// abort the reconstruction.
func Reconstruct(req *entity.PlanRequest, resp *SolverResponse, ref TimeRef) (*entity.CanonicalResult, []string) {
	var warnings []string

	orderIndex := make(map[string]int, len(req.Orders))
	for i, order := range req.Orders {
		if order.ExternalID != "" {
			orderIndex[order.ExternalID] = i + 1
		}
	}

	slots := slotCount(req, resp)
	planBySlot, planWarnings := matchPlans(req, resp, slots)
	warnings = append(warnings, planWarnings...)

	result := &entity.CanonicalResult{
		Status:            resp.Status,
		BaseTime:          ref.Base(),
		Routes:            make([][]int, slots),
		TDeparture:        make([]int, slots),
		TDelivery:         map[int]int{},
		Skip:              map[int]int{},
		Cert:              map[int]int{},
		AssignedToCourier: map[int]int{},
	}

	offsets := req.AvailableOffsets()
	membership := make(map[int]int, len(req.Orders))

	for slot := 0; slot < slots; slot++ {
		courier := planBySlot[slot]

		route := []int{0}
		if courier != nil {
			for _, stop := range sortedStops(courier.Stops) {
				node, known := orderIndex[stop.OrderID]
				if !known {
					warnings = append(warnings, fmt.Sprintf("courier slot %d: order %q is not part of the request and was skipped", slot, stop.OrderID))

					continue
				}
				if _, seen := membership[node]; seen {
					warnings = append(warnings, fmt.Sprintf("courier slot %d: order %q appears more than once and was deduplicated", slot, stop.OrderID))

					continue
				}

				membership[node] = slot
				route = append(route, node)
			}
		}
		route = append(route, 0)
		result.Routes[slot] = route

		result.TDeparture[slot] = departureOffset(courier, slot, offsets, ref)
	}

	skipped := applyOrderPlans(result, resp.Orders, orderIndex, ref, &warnings)

	for node, slot := range membership {
		if skipped[node] {
			continue
		}
		result.AssignedToCourier[node] = slot
	}

	if resp.Metrics != nil {
		result.Objective = resp.Metrics.Objective
	}

	return result, warnings
}

// slotCount guards against responses missing or inventing couriers: the slot
// count is the maximum of the request's couriers, the response's couriers
// and the declared available-offset vector length.
func slotCount(req *entity.PlanRequest, resp *SolverResponse) int {
	slots := len(req.Couriers)
	if n := len(resp.Couriers); n > slots {
		slots = n
	}
	if n := len(req.Available); n > slots {
		slots = n
	}

	return slots
}

// matchPlans resolves each response courier to a slot: by external id when
// the request declares that courier, positionally otherwise.
func matchPlans(req *entity.PlanRequest, resp *SolverResponse, slots int) ([]*entity.CourierPlan, []string) {
	var warnings []string

	slotByID := make(map[string]int, len(req.Couriers))
	for i, courier := range req.Couriers {
		if courier.ID != "" {
			slotByID[courier.ID] = i
		}
	}

	planBySlot := make([]*entity.CourierPlan, slots)
	for i := range resp.Couriers {
		courier := &resp.Couriers[i]

		slot, matched := slotByID[courier.CourierID]
		if !matched {
			slot = i
		}
		if slot >= slots || planBySlot[slot] != nil {
			// Either the id matched a slot already claimed or the response
			// has more couriers than slots; fall back positionally.
			if i < slots && planBySlot[i] == nil {
				slot = i
			} else {
				warnings = append(warnings, fmt.Sprintf("courier %q could not be matched to a slot", courier.CourierID))

				continue
			}
		}

		planBySlot[slot] = courier
	}

	return planBySlot, warnings
}

// sortedStops orders a delivery sequence by its reported positions, which
// are not guaranteed contiguous or sorted. The sort is stable so ties keep
// producer order.
func sortedStops(stops []entity.PlanStop) []entity.PlanStop {
	ordered := make([]entity.PlanStop, len(stops))
	copy(ordered, stops)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	return ordered
}

func departureOffset(courier *entity.CourierPlan, slot int, offsets []int, ref TimeRef) int {
	if courier != nil {
		if rel := ref.RelMinutesOf(courier.PlannedDepartureAt); rel != nil {
			return *rel
		}
	}
	if slot < len(offsets) {
		return offsets[slot]
	}

	return 0
}

// applyOrderPlans fills the delivery/skip/cert maps from the response's
// order records. This covers both orders inside delivery sequences and
// external unassigned/skip records that belong to no courier; the latter get
// their fields filled without ever creating a route position. Returns the
// set of skipped order indices.
func applyOrderPlans(result *entity.CanonicalResult, orders []entity.OrderPlan, orderIndex map[string]int, ref TimeRef, warnings *[]string) map[int]bool {
	skipped := make(map[int]bool)

	for i := range orders {
		order := &orders[i]

		node, known := orderIndex[order.OrderID]
		if !known {
			*warnings = append(*warnings, fmt.Sprintf("order %q is not part of the request and was skipped", order.OrderID))

			continue
		}

		if rel := ref.RelMinutesOf(order.PlannedDeliveryAt); rel != nil {
			result.TDelivery[node] = *rel
		}
		if order.IsSkipped {
			result.Skip[node] = 1
			skipped[node] = true
		}
		if order.IsCert {
			result.Cert[node] = 1
		}
	}

	return skipped
}
