package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTimeRef_PrefersReportedTimestamp(t *testing.T) {
	reported := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	ref := ResolveTimeRef(&reported, start)

	assert.Equal(t, reported, ref.Base())
}

func TestResolveTimeRef_FallsBackToRequestStart(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, start, ResolveTimeRef(nil, start).Base())

	var zero time.Time
	assert.Equal(t, start, ResolveTimeRef(&zero, start).Base())
}

func TestResolveTimeRef_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	reported := time.Date(2024, 3, 1, 13, 0, 0, 0, loc)

	ref := ResolveTimeRef(&reported, time.Time{})

	assert.Equal(t, time.UTC, ref.Base().Location())
	assert.Equal(t, 12, ref.Base().Hour())
}

func TestTimeRef_RelMinutesRounds(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ref := ResolveTimeRef(&base, base)

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{name: "exact", at: base.Add(15 * time.Minute), want: 15},
		{name: "rounds up", at: base.Add(15*time.Minute + 31*time.Second), want: 16},
		{name: "rounds down", at: base.Add(15*time.Minute + 29*time.Second), want: 15},
		{name: "before base is negative", at: base.Add(-10 * time.Minute), want: -10},
		{name: "on base", at: base, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ref.RelMinutes(tt.at))
		})
	}
}

func TestTimeRef_RelMinutesOfPreservesNil(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ref := ResolveTimeRef(&base, base)

	assert.Nil(t, ref.RelMinutesOf(nil))

	var zero time.Time
	assert.Nil(t, ref.RelMinutesOf(&zero))

	at := base.Add(7 * time.Minute)
	rel := ref.RelMinutesOf(&at)
	require.NotNil(t, rel)
	assert.Equal(t, 7, *rel)
}

func TestTimeRef_FromMinutesRoundTrips(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ref := ResolveTimeRef(&base, base)

	at := ref.FromMinutes(42)
	assert.Equal(t, base.Add(42*time.Minute), at)
	assert.Equal(t, 42, ref.RelMinutes(at))
}
