package plan

import (
	"time"

	"planmap/internal/domain/entity"
)

// maxEnvelopeDepth bounds the recursive unwrap so a malformed payload can
// never loop. Two nested envelopes is the deepest shape observed in
// production; one extra level is headroom.
const maxEnvelopeDepth = 4

// Envelope field aliases. Producers wrap the real payload in an "outputs"
// array, a "result"/"data" object, or a "predictions" object-or-array.
var (
	aliasOutputs     = []string{"outputs", "Outputs"}
	aliasResult      = []string{"result", "Result"}
	aliasData        = []string{"data", "Data"}
	aliasPredictions = []string{"predictions", "Predictions"}
)

// Normalize collapses every known response envelope variant into one flat
// object exposing status, current_timestamp_utc, couriers, orders and
// metrics. Non-object input normalizes to an empty object.
func Normalize(payload any) map[string]any {
	return normalize(payload, maxEnvelopeDepth)
}

func normalize(payload any, depth int) map[string]any {
	if depth <= 0 {
		return map[string]any{}
	}

	switch v := payload.(type) {
	case []any:
		if len(v) == 0 {
			return map[string]any{}
		}

		return normalize(v[0], depth-1)
	case map[string]any:
		return normalizeObject(v, depth)
	default:
		return map[string]any{}
	}
}

func normalizeObject(obj map[string]any, depth int) map[string]any {
	if inner, ok := unwrapEnvelope(obj); ok {
		normalized := normalize(inner, depth-1)

		// status, timestamp and metrics fall back to the outer envelope when
		// the inner payload does not carry them.
		fillFromOuter(normalized, obj, "status", aliasStatus)
		fillFromOuter(normalized, obj, "current_timestamp_utc", aliasTimestamp)
		fillFromOuter(normalized, obj, "metrics", aliasMetrics)

		return normalized
	}

	canonical := map[string]any{}
	if value, ok := Field(obj, aliasStatus...); ok {
		canonical["status"] = value
	}
	if value, ok := Field(obj, aliasTimestamp...); ok {
		canonical["current_timestamp_utc"] = value
	}
	if value, ok := Field(obj, aliasOrders...); ok {
		canonical["orders"] = value
	}
	if value, ok := Field(obj, aliasCouriers...); ok {
		canonical["couriers"] = value
	}
	if value, ok := Field(obj, aliasMetrics...); ok {
		canonical["metrics"] = value
	}

	return canonical
}

// unwrapEnvelope returns the nested payload when obj is a known envelope
// shape rather than the payload itself.
func unwrapEnvelope(obj map[string]any) (any, bool) {
	if value, ok := Field(obj, aliasOutputs...); ok {
		if list, isList := value.([]any); isList {
			if len(list) == 0 {
				return nil, false
			}

			return list[0], true
		}
	}

	if value, ok := Field(obj, aliasPredictions...); ok {
		switch v := value.(type) {
		case []any:
			if len(v) > 0 {
				return v[0], true
			}
		case map[string]any:
			return v, true
		}
	}

	for _, aliases := range [][]string{aliasResult, aliasData} {
		if value, ok := Field(obj, aliases...); ok {
			if nested, isObject := value.(map[string]any); isObject {
				return nested, true
			}
		}
	}

	return nil, false
}

func fillFromOuter(normalized, outer map[string]any, key string, aliases []string) {
	if _, present := normalized[key]; present {
		return
	}
	if value, ok := Field(outer, aliases...); ok {
		normalized[key] = value
	}
}

// SolverResponse is the typed view of a normalized response.
type SolverResponse struct {
	Status           string
	CurrentTimestamp *time.Time
	Orders           []entity.OrderPlan
	Couriers         []entity.CourierPlan
	Metrics          *RawMetrics
}

// RawMetrics is the solver-reported metrics object with per-field presence
// preserved, so the aggregator can tell "reported as zero" from "absent".
type RawMetrics struct {
	TotalOrders      *int
	AssignedOrders   *int
	TotalCouriers    *int
	AssignedCouriers *int
	CertCount        *int
	SkipCount        *int
	Objective        *float64
}

// ParseResponse normalizes an arbitrary decoded payload and lifts it into
// the typed response model. Individual malformed fields are dropped; a
// record with one bad field still contributes its valid ones.
func ParseResponse(payload any) *SolverResponse {
	canonical := Normalize(payload)
	resp := &SolverResponse{}

	if value, ok := canonical["status"]; ok {
		if status, isID := ID(value); isID {
			resp.Status = status
		}
	}
	if value, ok := canonical["current_timestamp_utc"]; ok {
		if ts, isTime := Instant(value); isTime {
			resp.CurrentTimestamp = &ts
		}
	}

	resp.Orders = parseOrderPlans(canonical["orders"])
	resp.Couriers = parseCourierPlans(canonical["couriers"])
	resp.Metrics = parseMetrics(canonical["metrics"])

	return resp
}

func parseOrderPlans(value any) []entity.OrderPlan {
	list, ok := value.([]any)
	if !ok {
		return nil
	}

	orders := make([]entity.OrderPlan, 0, len(list))
	for _, item := range list {
		obj, isObject := item.(map[string]any)
		if !isObject {
			continue
		}

		orderID, hasID := fieldID(obj, aliasOrderID)
		if !hasID {
			continue
		}

		order := entity.OrderPlan{OrderID: orderID}
		if courierID, ok := fieldID(obj, aliasAssignedID); ok {
			order.AssignedCourierID = courierID
		}
		if at, ok := fieldInstant(obj, aliasDeliveryAt); ok {
			order.PlannedDeliveryAt = &at
		}
		if raw, ok := Field(obj, aliasIsCert...); ok {
			order.IsCert = Flag(raw)
		}
		if raw, ok := Field(obj, aliasIsSkipped...); ok {
			order.IsSkipped = Flag(raw)
		}

		orders = append(orders, order)
	}

	return orders
}

func parseCourierPlans(value any) []entity.CourierPlan {
	list, ok := value.([]any)
	if !ok {
		return nil
	}

	couriers := make([]entity.CourierPlan, 0, len(list))
	for _, item := range list {
		obj, isObject := item.(map[string]any)
		if !isObject {
			continue
		}

		courier := entity.CourierPlan{}
		if courierID, ok := fieldID(obj, aliasCourierID); ok {
			courier.CourierID = courierID
		}
		if at, ok := fieldInstant(obj, aliasDepartureAt); ok {
			courier.PlannedDepartureAt = &at
		}
		if at, ok := fieldInstant(obj, aliasReturnAt); ok {
			courier.PlannedReturnAt = &at
		}
		courier.Stops = parseStops(obj)

		couriers = append(couriers, courier)
	}

	return couriers
}

func parseStops(obj map[string]any) []entity.PlanStop {
	value, ok := Field(obj, aliasSequence...)
	if !ok {
		return nil
	}
	list, isList := value.([]any)
	if !isList {
		return nil
	}

	stops := make([]entity.PlanStop, 0, len(list))
	for _, item := range list {
		stopObj, isObject := item.(map[string]any)
		if !isObject {
			continue
		}

		orderID, hasID := fieldID(stopObj, aliasOrderID)
		if !hasID {
			continue
		}

		stop := entity.PlanStop{OrderID: orderID}
		if raw, present := Field(stopObj, aliasPosition...); present {
			if pos, isNumber := Number(raw); isNumber {
				stop.Position = int(pos)
			}
		}

		stops = append(stops, stop)
	}

	return stops
}

func parseMetrics(value any) *RawMetrics {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}

	metrics := &RawMetrics{
		TotalOrders:      fieldInt(obj, aliasTotalOrders),
		AssignedOrders:   fieldInt(obj, aliasAssignedOrders),
		TotalCouriers:    fieldInt(obj, aliasTotalCouriers),
		AssignedCouriers: fieldInt(obj, aliasAssignedCouriers),
		CertCount:        fieldInt(obj, aliasCertCount),
		SkipCount:        fieldInt(obj, aliasSkipCount),
	}
	if raw, present := Field(obj, aliasObjective...); present {
		if objective, isNumber := Number(raw); isNumber {
			metrics.Objective = &objective
		}
	}

	return metrics
}

func fieldID(obj map[string]any, aliases []string) (string, bool) {
	raw, ok := Field(obj, aliases...)
	if !ok {
		return "", false
	}

	return ID(raw)
}

func fieldInstant(obj map[string]any, aliases []string) (time.Time, bool) {
	raw, ok := Field(obj, aliases...)
	if !ok {
		return time.Time{}, false
	}

	return Instant(raw)
}

func fieldInt(obj map[string]any, aliases []string) *int {
	raw, ok := Field(obj, aliases...)
	if !ok {
		return nil
	}
	value, isNumber := Number(raw)
	if !isNumber {
		return nil
	}
	result := int(value)

	return &result
}
