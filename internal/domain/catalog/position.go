package catalog

// Position values form a dense 1-based rank over the live products of the
// catalog: at any time the set of positions equals {1..N} for N live rows.
// The functions below are pure; applying the computed shifts to the store is
// the repository's job.

// PositionShift describes a contiguous block of positions to move by Delta.
// Hi == 0 means the block is unbounded above (everything >= Lo).
type PositionShift struct {
	Lo    int
	Hi    int
	Delta int
}

// ClampPosition constrains a requested display position to the valid range
// for a collection of liveCount entities. When excludeMoving is true the
// entity being repositioned is itself counted in liveCount, so the highest
// valid target is liveCount; a new entity may append at liveCount+1.
// Out-of-range and non-positive input is clamped silently, never rejected.
func ClampPosition(requested int, liveCount int64, excludeMoving bool) int {
	maxAllowed := int(liveCount)
	if !excludeMoving {
		maxAllowed++
	}
	if maxAllowed < 1 {
		maxAllowed = 1
	}
	if requested < 1 {
		return 1
	}
	if requested > maxAllowed {
		return maxAllowed
	}
	return requested
}

// InsertShift computes the clamped position for a new product and the shift
// that opens a slot for it: every live row at or above the clamped position
// moves up by one.
func InsertShift(requested int, liveCount int64) (int, PositionShift) {
	pos := ClampPosition(requested, liveCount, false)
	return pos, PositionShift{Lo: pos, Hi: 0, Delta: +1}
}

// MoveShift computes the clamped target for repositioning an existing product
// and the single range shift that closes the old slot and opens the new one.
// Moving down decrements (old, new]; moving up increments [new, old). The
// mover itself sits outside the shifted range and is re-placed by the caller.
// Returns needed=false when the clamped target equals the current position.
func MoveShift(oldPos, requested int, liveCount int64) (pos int, shift PositionShift, needed bool) {
	pos = ClampPosition(requested, liveCount, true)
	switch {
	case pos == oldPos:
		return pos, PositionShift{}, false
	case pos > oldPos:
		return pos, PositionShift{Lo: oldPos + 1, Hi: pos, Delta: -1}, true
	default:
		return pos, PositionShift{Lo: pos, Hi: oldPos - 1, Delta: +1}, true
	}
}
