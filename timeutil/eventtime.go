package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for event dates, both in command input and
// in work-thread channel names.
const DateLayout = "02-01-2006"

const clockLayout = "15:04"

// ParseDate parses a DD-MM-YYYY date into a UTC midnight instant.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected DD-MM-YYYY)", s)
	}
	return t, nil
}

// TimeRange is the resolved start and end of an event on a given day.
type TimeRange struct {
	Start time.Time
	End   time.Time

	// Defaulted is true when an unparsable component fell back to midnight.
	Defaulted bool
}

// ResolveTimeRange interprets a free-text "HH:MM" or "HH:MM-HH:MM" range on
// the given day, in UTC. A missing end defaults to one hour after the
// start. An unparsable component falls back to midnight of the day and
// marks the range Defaulted.
func ResolveTimeRange(day time.Time, s string) TimeRange {
	startPart, endPart, hasEnd := strings.Cut(strings.TrimSpace(s), "-")

	var r TimeRange
	r.Start, r.Defaulted = clockOn(day, startPart)

	if !hasEnd {
		r.End = r.Start.Add(time.Hour)
		return r
	}

	var endDefaulted bool
	r.End, endDefaulted = clockOn(day, endPart)
	r.Defaulted = r.Defaulted || endDefaulted
	return r
}

// clockOn places an HH:MM clock reading on the given day. The second return
// is true when the reading could not be parsed and midnight was used.
func clockOn(day time.Time, s string) (time.Time, bool) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return midnight(day), true
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), false
}

func midnight(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
