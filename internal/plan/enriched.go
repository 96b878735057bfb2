package plan

import (
	"encoding/json"
	"math"
	"strings"

	"planmap/internal/domain/entity"
	apperrors "planmap/internal/domain/errors"

	"github.com/google/uuid"
)

// Capture is one enriched-log record: the solver invocation and its
// response as they were written to the production log, in whatever casing
// and nesting the log writer used.
type Capture struct {
	Request  map[string]any
	Response map[string]any

	// ActualCoords carries authoritative per-order coordinates found in the
	// capture's embedded actual-state blocks. When an order id appears here
	// its coordinates override the ones stored with the plan request.
	ActualCoords map[string][2]float64
}

var (
	aliasCapturePayload  = []string{"payload", "Payload", "enriched_payload", "EnrichedPayload", "enrichedPayload"}
	aliasCaptureRequest  = []string{"request", "Request", "solver_request", "SolverRequest"}
	aliasCaptureResponse = []string{"response", "Response", "solver_response", "SolverResponse"}
	aliasActualState     = []string{"actual_state", "ActualState", "actualState", "actual_orders", "ActualOrders"}
	aliasLat             = []string{"lat", "Lat", "latitude", "Latitude"}
	aliasLon             = []string{"lon", "Lon", "lng", "longitude", "Longitude"}
	aliasInputs          = []string{"inputs", "Inputs"}
	aliasBoxes           = []string{"boxes", "Boxes", "box_count", "BoxCount"}
	aliasCreatedAt       = []string{"created_at_utc", "CreatedAtUtc", "createdAtUtc", "created_at", "CreatedAt"}
	aliasReadyAt         = []string{"ready_at_utc", "ReadyAtUtc", "readyAtUtc", "ready_at", "ReadyAt"}
	aliasCapacity        = []string{"capacity", "Capacity"}
	aliasAvailOffset     = []string{"available_offset_min", "AvailableOffsetMin", "availableOffsetMin"}
	aliasMatrix          = []string{"travel_time_matrix_minutes", "TravelTimeMatrixMinutes", "travelTimeMatrixMinutes", "matrix", "Matrix"}
	aliasWeights         = []string{"optimization_weights", "OptimizationWeights", "optimizationWeights", "weights", "Weights"}
	aliasWeightCert      = []string{"w_cert", "WCert", "wCert"}
	aliasWeightC2E       = []string{"w_c2e", "WC2e", "wC2e"}
	aliasWeightSkip      = []string{"w_skip", "WSkip", "wSkip"}
)

// ParseCapture decodes an enriched-log capture pasted from the clipboard or
// read from a log file. An empty buffer, invalid JSON or a document without
// a recognizable response block all fail with the capture parse error kind
// so the caller can surface a targeted message.
func ParseCapture(text string) (*Capture, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, apperrors.ErrCaptureParse.WithDetails("capture buffer is empty")
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, apperrors.ErrCaptureParse.WithDetails(err.Error())
	}

	root, ok := decoded.(map[string]any)
	if !ok {
		return nil, apperrors.ErrCaptureParse.WithDetails("capture document is not a JSON object")
	}

	body := unwrapCapture(root)

	capture := &Capture{ActualCoords: map[string][2]float64{}}
	if value, ok := Field(body, aliasCaptureRequest...); ok {
		if obj, ok := value.(map[string]any); ok {
			capture.Request = unwrapCapture(obj)
		}
	}
	if value, ok := Field(body, aliasCaptureResponse...); ok {
		if obj, ok := value.(map[string]any); ok {
			capture.Response = unwrapCapture(obj)
		}
	}
	if capture.Response == nil && capture.Request == nil {
		// Some captures are the bare response document with no wrapper.
		capture.Response = body
	}

	collectActualCoords(root, capture.ActualCoords, 0)
	collectActualCoords(capture.Request, capture.ActualCoords, 0)

	return capture, nil
}

// unwrapCapture strips the optional Payload / EnrichedPayload nesting that
// the log writer wraps records in, one level at a time up to the same depth
// bound as the response envelopes.
func unwrapCapture(obj map[string]any) map[string]any {
	for depth := 0; depth < maxEnvelopeDepth; depth++ {
		value, ok := Field(obj, aliasCapturePayload...)
		if !ok {
			return obj
		}
		inner, ok := value.(map[string]any)
		if !ok {
			return obj
		}
		obj = inner
	}

	return obj
}

// collectActualCoords walks a capture block looking for actual-state order
// lists and records their coordinates by order id. Entries without a usable
// id or with non-finite coordinates are skipped.
func collectActualCoords(obj map[string]any, into map[string][2]float64, depth int) {
	if obj == nil || depth > maxEnvelopeDepth {
		return
	}

	if value, ok := Field(obj, aliasActualState...); ok {
		switch state := value.(type) {
		case map[string]any:
			if orders, ok := Field(state, aliasOrders...); ok {
				recordOrderCoords(orders, into)
			}
			collectActualCoords(state, into, depth+1)
		case []any:
			recordOrderCoords(state, into)
		}
	}

	for _, value := range obj {
		if inner, ok := value.(map[string]any); ok {
			collectActualCoords(inner, into, depth+1)
		}
	}
}

func recordOrderCoords(value any, into map[string][2]float64) {
	list, ok := value.([]any)
	if !ok {
		return
	}

	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, ok := fieldID(entry, aliasOrderID)
		if !ok {
			continue
		}
		lat, latOK := fieldNumber(entry, aliasLat...)
		lon, lonOK := fieldNumber(entry, aliasLon...)
		if !latOK || !lonOK {
			continue
		}

		into[id] = [2]float64{lat, lon}
	}
}

// RequestFromCapture lifts a capture's embedded request block into a plan
// request, so the embedded response is reconciled against the orders and
// couriers the solver actually saw rather than whatever plan happens to be
// stored. The block may be the raw solver invocation
// ({inputs: [{data: {...}}]}) or the data document itself. Returns false
// when the block carries no order list; the caller falls back to the
// stored plan then.
func RequestFromCapture(key string, body map[string]any) (*entity.PlanRequest, bool) {
	data := unwrapSolverInput(body)

	ordersValue, ok := Field(data, aliasOrders...)
	if !ok {
		return nil, false
	}
	orderList, ok := ordersValue.([]any)
	if !ok || len(orderList) == 0 {
		return nil, false
	}

	request := &entity.PlanRequest{Key: key, Weights: entity.DefaultWeights}

	if ts, isTime := fieldInstant(data, aliasTimestamp); isTime {
		request.StartTime = ts
	}

	for _, item := range orderList {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		point := &entity.Point{
			InternalID: uuid.New(),
			Kind:       entity.KindOrder,
			Seq:        len(request.Orders) + 1,
		}
		if id, isID := fieldID(entry, aliasOrderID); isID {
			point.ExternalID = id
		}
		if lat, isNum := fieldNumber(entry, aliasLat...); isNum {
			point.Lat = lat
		}
		if lon, isNum := fieldNumber(entry, aliasLon...); isNum {
			point.Lon = lon
		}
		if boxes := fieldInt(entry, aliasBoxes); boxes != nil {
			point.Boxes = *boxes
		}
		if created, isID := fieldID(entry, aliasCreatedAt); isID {
			point.CreatedAt = created
		}
		if ready, isID := fieldID(entry, aliasReadyAt); isID {
			point.ReadyAt = ready
		}

		request.Orders = append(request.Orders, point)
	}
	if len(request.Orders) == 0 {
		return nil, false
	}

	if value, ok := Field(data, aliasCouriers...); ok {
		if courierList, isList := value.([]any); isList {
			for _, item := range courierList {
				entry, isObj := item.(map[string]any)
				if !isObj {
					continue
				}

				courier := entity.CourierSpec{}
				if id, isID := fieldID(entry, aliasCourierID); isID {
					courier.ID = id
				}
				if capacity := fieldInt(entry, aliasCapacity); capacity != nil {
					courier.Capacity = *capacity
				}
				if offset := fieldInt(entry, aliasAvailOffset); offset != nil {
					courier.AvailableOffsetMin = *offset
				}

				request.Couriers = append(request.Couriers, courier)
			}
		}
	}

	if value, ok := Field(data, aliasMatrix...); ok {
		request.Matrix = intMatrix(value)
	}

	if value, ok := Field(data, aliasWeights...); ok {
		if weights, isObj := value.(map[string]any); isObj {
			if cert := fieldInt(weights, aliasWeightCert); cert != nil {
				request.Weights.Cert = *cert
			}
			if c2e := fieldInt(weights, aliasWeightC2E); c2e != nil {
				request.Weights.C2E = *c2e
			}
			if skip := fieldInt(weights, aliasWeightSkip); skip != nil {
				request.Weights.Skip = *skip
			}
		}
	}

	return request, true
}

// unwrapSolverInput strips the solver invocation framing when the capture
// logged the raw invocation instead of its data document.
func unwrapSolverInput(obj map[string]any) map[string]any {
	if value, ok := Field(obj, aliasInputs...); ok {
		if list, isList := value.([]any); isList && len(list) > 0 {
			if first, isObj := list[0].(map[string]any); isObj {
				obj = first
			}
		}
	}
	if value, ok := Field(obj, aliasData...); ok {
		if inner, isObj := value.(map[string]any); isObj {
			obj = inner
		}
	}

	return obj
}

// intMatrix lifts a decoded travel-time matrix. Any malformed row or cell
// drops the whole matrix; a partial matrix is worse than none.
func intMatrix(value any) [][]int {
	rows, ok := value.([]any)
	if !ok {
		return nil
	}

	matrix := make([][]int, 0, len(rows))
	for _, rowValue := range rows {
		cells, isList := rowValue.([]any)
		if !isList {
			return nil
		}
		row := make([]int, 0, len(cells))
		for _, cell := range cells {
			minutes, isNum := Number(cell)
			if !isNum {
				return nil
			}
			row = append(row, int(math.Round(minutes)))
		}
		matrix = append(matrix, row)
	}

	return matrix
}

func fieldNumber(obj map[string]any, names ...string) (float64, bool) {
	value, ok := Field(obj, names...)
	if !ok {
		return 0, false
	}

	return Number(value)
}
