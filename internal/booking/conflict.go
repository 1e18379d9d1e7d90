package booking

// ReservationWindow is the slice of a reservation the conflict check needs.
type ReservationWindow struct {
	ReservationID int    `db:"reservation_id"`
	StartMin      int    `db:"start_min"`
	EndMin        int    `db:"end_min"`
	Status        Status `db:"status"`
}

// Overlaps reports whether two half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Back-to-back intervals (aEnd == bStart) do not.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// HasConflict reports whether [startMin,endMin) collides with any pending or
// confirmed reservation in existing. excludeID skips a reservation's own
// window, so a confirm re-check does not conflict with itself.
func HasConflict(startMin, endMin int, existing []ReservationWindow, excludeID int) bool {
	for _, w := range existing {
		if w.ReservationID == excludeID {
			continue
		}
		if w.Status != StatusPending && w.Status != StatusConfirmed {
			continue
		}
		if Overlaps(startMin, endMin, w.StartMin, w.EndMin) {
			return true
		}
	}
	return false
}

// MaxFreeDuration returns the longest bookable duration starting at startMin,
// probing from desiredMin down in stepMin decrements. The result respects
// both the closing time and the existing reservations; 0 means even the
// shortest slot is taken.
func MaxFreeDuration(startMin, desiredMin, stepMin, closeMin int, existing []ReservationWindow) int {
	if stepMin <= 0 || desiredMin < stepMin {
		return 0
	}
	for d := desiredMin; d >= stepMin; d -= stepMin {
		end := startMin + d
		if end > closeMin {
			continue
		}
		if !HasConflict(startMin, end, existing, 0) {
			return d
		}
	}
	return 0
}
