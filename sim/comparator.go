package sim

// ConstraintBefore reports whether a solves before b: higher priority first,
// and on equal priority the larger id first.
func ConstraintBefore(a, b Constraint) bool {
	if a.Priority() != b.Priority() {
		return a.Priority() > b.Priority()
	}

	return a.ID() > b.ID()
}

func compareConstraints(a, b Constraint) int {
	switch {
	case ConstraintBefore(a, b):
		return -1
	case ConstraintBefore(b, a):
		return 1
	default:
		return 0
	}
}
