package geomap

import (
	"testing"
	"time"

	"planmap/internal/domain/entity"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segmentsRequest() *entity.PlanRequest {
	return &entity.PlanRequest{
		Key:       "test",
		StartTime: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Depot:     &entity.Point{Kind: entity.KindDepot, Lat: 55.70, Lon: 37.60},
		Orders: []*entity.Point{
			{ExternalID: "A", Kind: entity.KindOrder, Lat: 55.75, Lon: 37.62, Seq: 1},
			{ExternalID: "B", Kind: entity.KindOrder, Lat: 55.76, Lon: 37.63, Seq: 2},
			{ExternalID: "C", Kind: entity.KindOrder, Lat: 55.77, Lon: 37.64, Seq: 3},
		},
	}
}

func TestBuildSegments_NilResult(t *testing.T) {
	req := segmentsRequest()

	assert.Nil(t, BuildSegments(req, nil, Decluster(req.Points())))
}

func TestBuildSegments_EmptyRouteProducesNoDTO(t *testing.T) {
	req := segmentsRequest()
	result := &entity.CanonicalResult{
		Routes: [][]int{
			{0, 1, 2, 0},
			{0, 0},
		},
	}

	dtos := BuildSegments(req, result, Decluster(req.Points()))

	require.Len(t, dtos, 1)
	assert.Equal(t, 0, dtos[0].GroupID)
}

func TestBuildSegments_GroupIDIsCourierSlot(t *testing.T) {
	req := segmentsRequest()
	result := &entity.CanonicalResult{
		Routes: [][]int{
			{0, 1, 0},
			{0, 2, 3, 0},
		},
	}

	dtos := BuildSegments(req, result, Decluster(req.Points()))

	require.Len(t, dtos, 2)
	// Same base as the points' derived group id, so a client can correlate
	// a segment group with its markers directly.
	assert.Equal(t, 0, dtos[0].GroupID)
	assert.Equal(t, 1, dtos[1].GroupID)
}

func TestBuildSegments_SegmentGeometry(t *testing.T) {
	req := segmentsRequest()
	result := &entity.CanonicalResult{
		Routes: [][]int{{0, 1, 2, 3, 0}},
	}

	dtos := BuildSegments(req, result, Decluster(req.Points()))

	require.Len(t, dtos, 1)
	dto := dtos[0]

	require.Len(t, dto.Polyline, 3)
	assert.Equal(t, orb.Point{37.62, 55.75}, dto.Polyline[0])
	assert.Equal(t, orb.Point{37.64, 55.77}, dto.Polyline[2])

	require.Len(t, dto.Segments, 2)
	first := dto.Segments[0]
	assert.Equal(t, dto.Polyline[0], first.From)
	assert.Equal(t, dto.Polyline[1], first.To)
	assert.Equal(t, 1, first.FromPos)
	assert.Equal(t, 2, first.ToPos)
	// The arrow anchor sits between the endpoints.
	assert.InDelta(t, 55.755, first.Mid.Lat(), 0.001)
	assert.InDelta(t, 37.625, first.Mid.Lon(), 0.001)

	require.NotNil(t, dto.DepotSegment)
	assert.Equal(t, orb.Point{37.60, 55.70}, dto.DepotSegment.From)
	assert.Equal(t, dto.Polyline[0], dto.DepotSegment.To)
	assert.Equal(t, 0, dto.DepotSegment.FromPos)
	assert.Equal(t, 1, dto.DepotSegment.ToPos)

	assert.Equal(t, "A → B → C", dto.Tooltip)
}

func TestBuildSegments_OutOfRangeNodesSkipped(t *testing.T) {
	req := segmentsRequest()
	result := &entity.CanonicalResult{
		Routes: [][]int{{0, 1, 9, 0}},
	}

	dtos := BuildSegments(req, result, Decluster(req.Points()))

	require.Len(t, dtos, 1)
	assert.Len(t, dtos[0].Polyline, 1)
	assert.Empty(t, dtos[0].Segments)
}

func TestBuildSegments_UsesDisplayPositions(t *testing.T) {
	req := segmentsRequest()
	// Orders A and B share a coordinate, so both get ring positions.
	req.Orders[1].Lat = req.Orders[0].Lat
	req.Orders[1].Lon = req.Orders[0].Lon
	placement := Decluster(req.Points())
	require.Len(t, placement.Positions, 2)

	result := &entity.CanonicalResult{Routes: [][]int{{0, 1, 2, 0}}}
	dtos := BuildSegments(req, result, placement)

	require.Len(t, dtos, 1)
	assert.Equal(t, placement.Positions["A"], dtos[0].Polyline[0])
	assert.Equal(t, placement.Positions["B"], dtos[0].Polyline[1])
}

func TestRouteColor_StableUnderVisitOrder(t *testing.T) {
	color := RouteColor([]string{"A", "B", "C"})

	assert.Equal(t, color, RouteColor([]string{"C", "A", "B"}))
	assert.Equal(t, color, RouteColor([]string{"B", "C", "A"}))
}

func TestRouteColor_DependsOnMembership(t *testing.T) {
	assert.NotEqual(t, RouteColor([]string{"A", "B"}), RouteColor([]string{"A", "C"}))
}

func TestRouteColor_Format(t *testing.T) {
	color := RouteColor([]string{"A"})

	assert.Regexp(t, `^#[0-9a-f]{6}$`, color)
}
