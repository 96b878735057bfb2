// Package plan normalizes solver responses of every observed envelope shape
// into one canonical result and reconciles them against the original plan
// request. Nothing here panics on malformed input: unrecognized or broken
// fields degrade to "absent" so a partial response still renders.
package plan

import "strings"

// Field alias tables, one per logical field. Each producer of a response
// names the same field differently (snake_case live API, PascalCase enriched
// logs, occasional camelCase); the ordered alias list makes the variants
// explicit instead of relying on reflection.
var (
	aliasStatus      = []string{"status", "Status", "solver_status", "SolverStatus"}
	aliasTimestamp   = []string{"current_timestamp_utc", "CurrentTimestampUtc", "currentTimestampUtc", "timestamp", "Timestamp"}
	aliasOrders      = []string{"orders", "Orders"}
	aliasCouriers    = []string{"couriers", "Couriers"}
	aliasMetrics     = []string{"metrics", "Metrics"}
	aliasOrderID     = []string{"order_id", "OrderId", "orderId", "id", "Id"}
	aliasCourierID   = []string{"courier_id", "CourierId", "courierId", "id", "Id"}
	aliasAssignedID  = []string{"assigned_courier_id", "AssignedCourierId", "assignedCourierId", "courier_id", "CourierId"}
	aliasDeliveryAt  = []string{"planned_delivery_at_utc", "PlannedDeliveryAtUtc", "plannedDeliveryAtUtc", "planned_delivery_at", "delivery_at_utc"}
	aliasDepartureAt = []string{"planned_departure_at_utc", "PlannedDepartureAtUtc", "plannedDepartureAtUtc", "planned_departure_at"}
	aliasReturnAt    = []string{"planned_return_at_utc", "PlannedReturnAtUtc", "plannedReturnAtUtc", "planned_return_at"}
	aliasSequence    = []string{"delivery_sequence", "DeliverySequence", "deliverySequence", "sequence", "stops", "Stops"}
	aliasPosition    = []string{"position", "Position", "seq", "Seq", "order", "Order"}
	aliasIsCert      = []string{"is_cert", "IsCert", "isCert", "cert", "Cert"}
	aliasIsSkipped   = []string{"is_skipped", "IsSkipped", "isSkipped", "skipped", "skip", "Skip"}
)

// Metrics field aliases.
var (
	aliasTotalOrders      = []string{"total_orders", "TotalOrders", "totalOrders"}
	aliasAssignedOrders   = []string{"assigned_orders", "AssignedOrders", "assignedOrders"}
	aliasTotalCouriers    = []string{"total_couriers", "TotalCouriers", "totalCouriers"}
	aliasAssignedCouriers = []string{"assigned_couriers", "AssignedCouriers", "assignedCouriers"}
	aliasObjective        = []string{"objective_value", "ObjectiveValue", "objectiveValue", "objective", "Objective"}
	aliasCertCount        = []string{"cert_count", "CertCount", "certCount"}
	aliasSkipCount        = []string{"skip_count", "SkipCount", "skipCount"}
)

// Field returns the first value present in obj under one of the candidate
// names. Exact matches across the whole candidate list win over
// case-insensitive ones, so a producer that emits both "OrderId" and
// "order_id" resolves predictably.
func Field(obj map[string]any, names ...string) (any, bool) {
	if len(obj) == 0 {
		return nil, false
	}

	for _, name := range names {
		if value, ok := obj[name]; ok {
			return value, true
		}
	}

	for _, name := range names {
		for key, value := range obj {
			if strings.EqualFold(key, name) {
				return value, true
			}
		}
	}

	return nil, false
}
