// Package geomap turns a canonical plan into drawable geometry: declustered
// marker positions for coincident coordinates and directed arrow segments
// per courier route. Everything here is a pure function of its inputs and
// is rebuilt in full whenever the points or the result change.
package geomap

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"planmap/internal/domain/entity"
)

const (
	// clusterRadiusMeters is the ring radius markers are spread onto when
	// several points share one true coordinate.
	clusterRadiusMeters = 40.0

	metersPerDegreeLat = 111111.0

	// minLonScale guards the longitude conversion near the poles where
	// cos(latitude) collapses to zero.
	minLonScale = 1e-6
)

// Placement is the declustering output: a display position per point plus
// a boundary circle per cluster of coincident points.
type Placement struct {
	// Positions maps a point's label to its display coordinate. Points not
	// in the map render at their true coordinate.
	Positions map[string]orb.Point
	Clusters  []entity.Cluster
}

// DisplayPosition returns the point's display coordinate, falling back to
// its true coordinate when the point was not moved.
func (p *Placement) DisplayPosition(point *entity.Point) orb.Point {
	if p != nil {
		if pos, ok := p.Positions[point.Label()]; ok {
			return pos
		}
	}

	return orb.Point{point.Lon, point.Lat}
}

// Decluster groups points sharing one coordinate (compared at 6-decimal
// precision) and spreads each group around a fixed-radius ring so every
// marker stays clickable. Singleton points keep their true coordinate. The
// ring center is the group's true coordinate; the anchor ordering is the
// lexicographic order of point labels so the layout is stable across calls.
func Decluster(points []*entity.Point) *Placement {
	placement := &Placement{Positions: map[string]orb.Point{}}

	groups := map[string][]*entity.Point{}
	var keys []string
	for _, point := range points {
		key := coordKey(point.Lat, point.Lon)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], point)
	}

	for _, key := range keys {
		group := groups[key]
		if len(group) < 2 {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			return group[i].Label() < group[j].Label()
		})

		anchor := group[0]
		center := orb.Point{anchor.Lon, anchor.Lat}
		angles := ringAngles(len(group))

		pointIDs := make([]string, len(group))
		for i, point := range group {
			pointIDs[i] = point.Label()
			placement.Positions[point.Label()] = offsetPoint(center, angles[i])
		}

		first := placement.Positions[group[0].Label()]
		placement.Clusters = append(placement.Clusters, entity.Cluster{
			Center:   center,
			RadiusM:  geo.Distance(center, first),
			PointIDs: pointIDs,
		})
	}

	return placement
}

func coordKey(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}

// ringAngles returns the marker angles in degrees for a group of size n.
// Pairs sit opposite each other along the latitude axis, triples add a
// westward third marker; larger groups spread evenly starting from -90.
func ringAngles(n int) []float64 {
	switch n {
	case 2:
		return []float64{180, 0}
	case 3:
		return []float64{180, 0, -90}
	}

	angles := make([]float64, n)
	step := 360.0 / float64(n)
	for i := range angles {
		angles[i] = -90 + step*float64(i)
	}

	return angles
}

// offsetPoint moves center by the cluster radius along the given compass
// angle, converting the meter offset to degrees at the center's latitude.
func offsetPoint(center orb.Point, angleDeg float64) orb.Point {
	rad := angleDeg * math.Pi / 180
	dNorth := clusterRadiusMeters * math.Cos(rad)
	dEast := clusterRadiusMeters * math.Sin(rad)

	lonScale := math.Cos(center.Lat() * math.Pi / 180)
	if math.Abs(lonScale) < minLonScale {
		lonScale = minLonScale
	}

	return orb.Point{
		center.Lon() + dEast/(metersPerDegreeLat*lonScale),
		center.Lat() + dNorth/metersPerDegreeLat,
	}
}
