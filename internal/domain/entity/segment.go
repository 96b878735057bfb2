package entity

import "github.com/paulmach/orb"

// RouteSegment is one directed edge of a drawn route. Mid is where the
// direction arrow icon is anchored; FromPos/ToPos are the 1-based route
// positions the segment connects (0 for the depot).
type RouteSegment struct {
	From    orb.Point `json:"from"`
	To      orb.Point `json:"to"`
	Mid     orb.Point `json:"mid"`
	FromPos int       `json:"from_pos"`
	ToPos   int       `json:"to_pos"`
}

// RouteSegmentDTO is the drawable form of one reconstructed route. GroupID
// is the courier slot index, the same value the points carry in their
// derived group id. The depot segment is returned separately so the caller
// can opt out of drawing it.
type RouteSegmentDTO struct {
	GroupID      int            `json:"group_id"`
	Color        string         `json:"color"`
	Polyline     []orb.Point    `json:"polyline"`
	Segments     []RouteSegment `json:"segments"`
	DepotSegment *RouteSegment  `json:"depot_segment,omitempty"`
	Tooltip      string         `json:"tooltip"`
}

// Cluster is the visual boundary of a group of markers that share exact
// coordinates. Center is the group's true coordinate; RadiusM is measured
// from the center to the first placed marker.
type Cluster struct {
	Center   orb.Point `json:"center"`
	RadiusM  float64   `json:"radius_m"`
	PointIDs []string  `json:"point_ids"`
}
