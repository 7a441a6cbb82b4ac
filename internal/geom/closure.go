package geom

// Classify decides whether a flattened entity forms a ring and
// force-closes it when its kind requires one. Explicit format metadata
// (a polyline or spline closed flag) always wins over geometric
// endpoint equality, which is used only when no flag was readable.
// The returned sequence is pts itself unless a closing duplicate of
// the first point had to be appended.
func Classify(e Entity, pts []Point2D) (bool, []Point2D) {
	if len(pts) < 2 {
		return false, pts
	}

	switch k := e.(type) {
	case Circle, Ellipse:
		return true, ForceClose(pts)

	case Polyline:
		closed := k.Closed
		if !k.HasClosedFlag {
			closed = pts[0] == pts[len(pts)-1]
		}
		if closed {
			return true, ForceClose(pts)
		}
		return false, pts

	case Spline:
		closed := k.Closed
		if !k.HasClosedFlag {
			closed = pts[0] == pts[len(pts)-1]
		}
		if closed {
			return true, ForceClose(pts)
		}
		return false, pts

	default:
		// Arcs and any future open-curve kinds: closed only when the
		// geometry already closes itself, never forced.
		return pts[0] == pts[len(pts)-1], pts
	}
}

// ForceClose appends an exact duplicate of the first point when the
// sequence does not already end on it.
func ForceClose(pts []Point2D) []Point2D {
	if len(pts) == 0 || pts[0] == pts[len(pts)-1] {
		return pts
	}
	return append(pts, pts[0])
}
