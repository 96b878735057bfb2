package plan

import "planmap/internal/domain/entity"

// Project writes the canonical result back onto the request's points as
// derived fields. It is a pure rebuild: every derived field is wiped first,
// then filled from the result, so applying a response twice is equivalent to
// applying it once and there is never a stale leftover from the previous
// response.
func Project(req *entity.PlanRequest, result *entity.CanonicalResult, ref TimeRef) {
	for _, point := range req.Points() {
		point.Derived.Reset()
	}
	if result == nil {
		return
	}

	if req.Depot != nil {
		fillDepotDirect(req.Depot, req.Matrix, 0)
	}

	for i, order := range req.Orders {
		node := i + 1
		derived := &order.Derived

		fillDepotDirect(order, req.Matrix, order.Seq)

		createdRel := createdRelMinutes(order, ref)
		if createdRel != nil {
			elapsed := -*createdRel
			if elapsed < 0 {
				elapsed = 0
			}
			derived.CurrentC2EMin = &elapsed
		}

		if eta, ok := result.TDelivery[node]; ok {
			etaValue := eta
			derived.EtaRelMin = &etaValue

			if createdRel != nil {
				planned := etaValue - *createdRel
				derived.PlannedC2EMin = &planned
			}
			if readyRel := readyRelMinutes(order, ref); readyRel != nil {
				wait := *readyRel - etaValue
				if wait < 0 {
					wait = 0
				}
				derived.CourierWaitMin = &wait
			}
		}

		if slot, assigned := result.AssignedToCourier[node]; assigned {
			slotValue := slot
			derived.GroupID = &slotValue
			if pos := routePosition(result.Routes, slot, node); pos > 0 {
				derived.RoutePos = &pos
			}
		}

		skipFlag := result.Skip[node] == 1
		// An order the solver neither routed nor reported is treated as
		// skipped, matching the reset-and-rebuild semantics of the table.
		if _, assigned := result.AssignedToCourier[node]; !assigned {
			skipFlag = true
		}
		certFlag := result.Cert[node] == 1
		derived.Skip = &skipFlag
		derived.Cert = &certFlag
	}
}

func fillDepotDirect(point *entity.Point, matrix [][]int, column int) {
	if len(matrix) == 0 || len(matrix[0]) <= column || column < 0 {
		return
	}
	direct := matrix[0][column]
	point.Derived.DepotDirectMin = &direct
}

func createdRelMinutes(order *entity.Point, ref TimeRef) *int {
	created, ok := Instant(order.CreatedAt)
	if !ok {
		return nil
	}
	rel := ref.RelMinutes(created)

	return &rel
}

func readyRelMinutes(order *entity.Point, ref TimeRef) *int {
	ready, ok := Instant(order.ReadyAt)
	if !ok {
		return nil
	}
	rel := ref.RelMinutes(ready)

	return &rel
}

// routePosition returns the 1-based position of a node within a slot's
// route, 0 when absent. Position 0 is reserved for the depot.
func routePosition(routes [][]int, slot, node int) int {
	if slot < 0 || slot >= len(routes) {
		return 0
	}
	for i, routeNode := range routes[slot] {
		if routeNode == node && i > 0 && i < len(routes[slot])-1 {
			return i
		}
	}

	return 0
}
