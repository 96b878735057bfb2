package geomap

import (
	"testing"

	"planmap/internal/domain/entity"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geoPoint(label string, lat, lon float64) *entity.Point {
	return &entity.Point{ExternalID: label, Kind: entity.KindOrder, Lat: lat, Lon: lon}
}

func TestDecluster_SingletonsKeepTrueCoordinates(t *testing.T) {
	points := []*entity.Point{
		geoPoint("A", 55.75, 37.62),
		geoPoint("B", 55.76, 37.63),
	}

	placement := Decluster(points)

	assert.Empty(t, placement.Positions)
	assert.Empty(t, placement.Clusters)
	assert.Equal(t, orb.Point{37.62, 55.75}, placement.DisplayPosition(points[0]))
}

func TestDecluster_PairSpreadsAlongLatitudeAxis(t *testing.T) {
	points := []*entity.Point{
		geoPoint("A", 0, 10),
		geoPoint("B", 0, 10),
	}

	placement := Decluster(points)

	require.Len(t, placement.Positions, 2)
	posA := placement.Positions["A"]
	posB := placement.Positions["B"]

	// Angle 180 moves south, angle 0 north: same longitude, opposite
	// latitude offsets.
	assert.InDelta(t, 10, posA.Lon(), 1e-9)
	assert.InDelta(t, 10, posB.Lon(), 1e-9)
	assert.Less(t, posA.Lat(), 0.0)
	assert.Greater(t, posB.Lat(), 0.0)

	// The two markers sit a full ring diameter apart.
	assert.InDelta(t, 80, geo.Distance(posA, posB), 1.0)
}

func TestDecluster_ClusterRadiusNearRingRadius(t *testing.T) {
	points := []*entity.Point{
		geoPoint("A", 55.75, 37.62),
		geoPoint("B", 55.75, 37.62),
		geoPoint("C", 55.75, 37.62),
	}

	placement := Decluster(points)

	require.Len(t, placement.Clusters, 1)
	cluster := placement.Clusters[0]
	assert.Equal(t, orb.Point{37.62, 55.75}, cluster.Center)
	assert.InDelta(t, 40, cluster.RadiusM, 1.0)
	assert.Equal(t, []string{"A", "B", "C"}, cluster.PointIDs)
}

func TestDecluster_AnchorOrderIsLexicographic(t *testing.T) {
	// Same group presented in two insertion orders.
	first := Decluster([]*entity.Point{
		geoPoint("B", 1, 2),
		geoPoint("A", 1, 2),
		geoPoint("C", 1, 2),
	})
	second := Decluster([]*entity.Point{
		geoPoint("C", 1, 2),
		geoPoint("A", 1, 2),
		geoPoint("B", 1, 2),
	})

	assert.Equal(t, first.Positions, second.Positions)
	require.Len(t, first.Clusters, 1)
	assert.Equal(t, []string{"A", "B", "C"}, first.Clusters[0].PointIDs)
}

func TestDecluster_SixDecimalPrecisionSplitsGroups(t *testing.T) {
	// Differ at the 6th decimal: distinct keys, no cluster.
	placement := Decluster([]*entity.Point{
		geoPoint("A", 55.750001, 37.62),
		geoPoint("B", 55.750002, 37.62),
	})
	assert.Empty(t, placement.Clusters)

	// Differ only at the 7th decimal: same key, one cluster.
	placement = Decluster([]*entity.Point{
		geoPoint("A", 55.7500001, 37.62),
		geoPoint("B", 55.7500002, 37.62),
	})
	assert.Len(t, placement.Clusters, 1)
}

func TestDecluster_LargeGroupSpreadsEvenly(t *testing.T) {
	group := []*entity.Point{
		geoPoint("A", 10, 20),
		geoPoint("B", 10, 20),
		geoPoint("C", 10, 20),
		geoPoint("D", 10, 20),
		geoPoint("E", 10, 20),
	}

	placement := Decluster(group)

	require.Len(t, placement.Positions, 5)
	center := orb.Point{20, 10}
	for label, pos := range placement.Positions {
		assert.InDeltaf(t, 40, geo.Distance(center, pos), 1.0, "marker %s should sit on the ring", label)
	}
}

func TestDecluster_IsPure(t *testing.T) {
	points := []*entity.Point{
		geoPoint("A", 1, 2),
		geoPoint("B", 1, 2),
	}

	first := Decluster(points)
	second := Decluster(points)

	assert.Equal(t, first.Positions, second.Positions)
	assert.Equal(t, first.Clusters, second.Clusters)
	// The inputs themselves are never mutated.
	assert.Equal(t, 1.0, points[0].Lat)
	assert.Equal(t, 2.0, points[0].Lon)
}
