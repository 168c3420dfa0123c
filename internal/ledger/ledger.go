// Package ledger implements the occupancy accounting shared by every
// capacity-bounded resource (course seats, book copies) and the per-key
// locking that serialises read-modify-write sequences against them.
package ledger

// Availability is the derived open/full state of a capacity-bounded
// resource.
type Availability string

const (
	Open Availability = "open"
	Full Availability = "full"
)

// Adjust applies delta to an occupancy counter and derives the resource
// availability. The delta is deliberately not clamped: decrementing below
// zero keeps drop/return parity with the reference data, and a negative
// occupancy can never read as Full against a positive capacity.
func Adjust(occupancy, capacity, delta int) (int, Availability) {
	next := occupancy + delta
	if next >= capacity {
		return next, Full
	}
	return next, Open
}

// Transition maps a derived availability onto an entity status token.
// Only the open and full tokens ever flip automatically; any other
// current value is an administrative hold (suspended, maintenance) and
// is preserved as-is.
func Transition(current, open, full string, avail Availability) string {
	switch avail {
	case Full:
		if current == open || current == full {
			return full
		}
	case Open:
		if current == full {
			return open
		}
	}
	return current
}
