package geomap

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"planmap/internal/domain/entity"
)

// BuildSegments converts every reconstructed route into drawable directed
// segments. Stops render at their declustered display position when one
// exists, else at their true coordinate. Slots whose route is the empty
// round trip produce no DTO.
func BuildSegments(req *entity.PlanRequest, result *entity.CanonicalResult, placement *Placement) []entity.RouteSegmentDTO {
	if result == nil {
		return nil
	}

	var depotPos *orb.Point
	if req.Depot != nil {
		pos := placement.DisplayPosition(req.Depot)
		depotPos = &pos
	}

	var dtos []entity.RouteSegmentDTO
	for slot, route := range result.Routes {
		stops := interiorNodes(route)
		if len(stops) == 0 {
			continue
		}

		polyline := make([]orb.Point, 0, len(stops))
		labels := make([]string, 0, len(stops))
		for _, node := range stops {
			if node < 1 || node > len(req.Orders) {
				continue
			}
			order := req.Orders[node-1]
			polyline = append(polyline, placement.DisplayPosition(order))
			labels = append(labels, order.Label())
		}
		if len(polyline) == 0 {
			continue
		}

		segments := make([]entity.RouteSegment, 0, len(stops)-1)
		for i := 0; i+1 < len(polyline); i++ {
			segments = append(segments, segment(polyline[i], polyline[i+1], i+1, i+2))
		}

		dto := entity.RouteSegmentDTO{
			GroupID:  slot,
			Color:    RouteColor(labels),
			Polyline: polyline,
			Segments: segments,
			Tooltip:  strings.Join(labels, " → "),
		}
		if depotPos != nil {
			depotSeg := segment(*depotPos, polyline[0], 0, 1)
			dto.DepotSegment = &depotSeg
		}

		dtos = append(dtos, dto)
	}

	return dtos
}

func interiorNodes(route []int) []int {
	var nodes []int
	for _, node := range route {
		if node != 0 {
			nodes = append(nodes, node)
		}
	}

	return nodes
}

func segment(from, to orb.Point, fromPos, toPos int) entity.RouteSegment {
	return entity.RouteSegment{
		From:    from,
		To:      to,
		Mid:     geo.Midpoint(from, to),
		FromPos: fromPos,
		ToPos:   toPos,
	}
}

// RouteColor derives a stable color from the set of order identifiers in a
// route. The ids are sorted before hashing so the color depends only on
// the assignment, not on visit order or courier slot.
func RouteColor(orderIDs []string) string {
	sorted := make([]string, len(orderIDs))
	copy(sorted, orderIDs)
	sort.Strings(sorted)

	hash := fnv.New32a()
	hash.Write([]byte(strings.Join(sorted, "|")))
	hue := float64(hash.Sum32()%360) / 360

	return hsvToHex(hue, 0.6, 0.9)
}

// hsvToHex converts an HSV color (all components in [0, 1]) to a #rrggbb
// string.
func hsvToHex(h, s, v float64) string {
	i := int(math.Floor(h*6)) % 6
	f := h*6 - math.Floor(h*6)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return fmt.Sprintf("#%02x%02x%02x", int(math.Round(r*255)), int(math.Round(g*255)), int(math.Round(b*255)))
}
