package plan

import (
	"math"
	"time"
)

// TimeRef is the single time base every absolute timestamp of a response is
// converted against. It is resolved per response and never cached: a new
// response brings a new base.
type TimeRef struct {
	base time.Time
}

// ResolveTimeRef picks the base instant: the response's reported current
// timestamp when parseable, otherwise the request's nominal start time.
func ResolveTimeRef(reported *time.Time, requestStart time.Time) TimeRef {
	if reported != nil && !reported.IsZero() {
		return TimeRef{base: reported.UTC()}
	}

	return TimeRef{base: requestStart.UTC()}
}

// Base returns the resolved base instant.
func (r TimeRef) Base() time.Time {
	return r.base
}

// RelMinutes converts an absolute instant into rounded minutes relative to
// the base. Instants before the base come out negative.
func (r TimeRef) RelMinutes(t time.Time) int {
	return int(math.Round(t.Sub(r.base).Minutes()))
}

// RelMinutesOf is the nullable form: a nil instant stays nil so callers can
// distinguish "not computed" from "exactly on time".
func (r TimeRef) RelMinutesOf(t *time.Time) *int {
	if t == nil || t.IsZero() {
		return nil
	}
	minutes := r.RelMinutes(*t)

	return &minutes
}

// FromMinutes recovers the absolute instant at the given relative offset.
func (r TimeRef) FromMinutes(minutes int) time.Time {
	return r.base.Add(time.Duration(minutes) * time.Minute)
}
