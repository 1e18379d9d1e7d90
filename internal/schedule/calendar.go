package schedule

import (
	"fmt"
	"time"
)

// Minutes-from-midnight grid. A nil window means the club is closed that
// day and no fallback hours are ever offered.

// CandidateStarts returns the ordered start times (minutes from midnight)
// at which a booking of durationMin fits inside the open/close window,
// stepping by granularityMin.
func CandidateStarts(openMin, closeMin, granularityMin, durationMin int) []int {
	if granularityMin <= 0 || durationMin <= 0 {
		return nil
	}
	if openMin < 0 || closeMin > 24*60 || openMin >= closeMin {
		return nil
	}

	starts := make([]int, 0)
	for start := openMin; start+durationMin <= closeMin; start += granularityMin {
		starts = append(starts, start)
	}
	return starts
}

// FitsWindow reports whether [startMin, startMin+durationMin) lies fully
// inside the open/close window.
func FitsWindow(openMin, closeMin, startMin, durationMin int) bool {
	if durationMin <= 0 {
		return false
	}
	return startMin >= openMin && startMin+durationMin <= closeMin
}

// MinutesToClock formats minutes from midnight as "HH:MM".
func MinutesToClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ParseDate parses a calendar date in YYYY-MM-DD form, UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// StartAt combines a calendar date with minutes from midnight.
func StartAt(date time.Time, startMin int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).
		Add(time.Duration(startMin) * time.Minute)
}
