package geom

import "math"

const (
	circleSamples = 64
	splineSamples = 128
	minArcSamples = 12
)

// strategy produces a candidate point sequence for one flattening
// tier. ok reports whether the tier could run at all; the result is
// accepted only when it has at least two points.
type strategy func() ([]Point2D, bool)

// Flatten converts an entity into an ordered point sequence whose
// chordal deviation stays within tol (in the entity's native units).
// The entity's adaptive capability is tried first, then the uniform
// sampling tiers for its kind, in order, until one yields two or more
// points. On total failure Flatten returns nil so the caller can drop
// the entity; it never panics.
func Flatten(e Entity, tol float64) []Point2D {
	for _, s := range strategies(e, tol) {
		if pts, ok := s(); ok && len(pts) >= 2 {
			return pts
		}
	}
	return nil
}

// strategies returns the ordered flattening tiers for an entity kind.
func strategies(e Entity, tol float64) []strategy {
	tiers := []strategy{adaptiveTier(e.adaptive(), tol)}

	switch k := e.(type) {
	case Line:
		tiers = append(tiers, func() ([]Point2D, bool) {
			return []Point2D{k.Start, k.End}, true
		})
	case Arc:
		tiers = append(tiers, func() ([]Point2D, bool) {
			return sampleArc(k, tol), true
		})
	case Circle:
		tiers = append(tiers, func() ([]Point2D, bool) {
			return sampleCircle(k), true
		})
	case Ellipse:
		tiers = append(tiers, func() ([]Point2D, bool) {
			return sampleEvaluator(k.Eval, circleSamples, false), true
		})
	case Spline:
		tiers = append(tiers,
			func() ([]Point2D, bool) {
				return sampleEvaluator(k.Eval, splineSamples, true), true
			},
			func() ([]Point2D, bool) {
				return k.ControlPoints, true
			},
		)
	case Polyline:
		tiers = append(tiers, func() ([]Point2D, bool) {
			return k.Vertices, true
		})
	}

	return tiers
}

func adaptiveTier(a Adaptive, tol float64) strategy {
	return func() ([]Point2D, bool) {
		if a == nil {
			return nil, false
		}
		pts, err := a(tol)
		if err != nil {
			return nil, false
		}
		return pts, true
	}
}

// sampleArc samples the arc at uniform angular steps. The end angle is
// normalized to exceed the start angle, and the step count grows with
// the sweep so a coarse tolerance still never drops below minArcSamples.
func sampleArc(a Arc, tol float64) []Point2D {
	start := a.StartAngle
	end := a.EndAngle
	if end < start {
		end += 360
	}
	sweep := end - start

	n := int(sweep / math.Max(tol, 1e-4))
	if n < minArcSamples {
		n = minArcSamples
	}

	pts := make([]Point2D, n+1)
	for i := 0; i <= n; i++ {
		angle := (start + sweep*float64(i)/float64(n)) * math.Pi / 180
		pts[i] = Point2D{
			X: a.Center.X + a.Radius*math.Cos(angle),
			Y: a.Center.Y + a.Radius*math.Sin(angle),
		}
	}
	return pts
}

// sampleCircle approximates a circle as a regular polygon. The ring is
// left open; the closure stage appends the closing duplicate.
func sampleCircle(c Circle) []Point2D {
	pts := make([]Point2D, circleSamples)
	for i := 0; i < circleSamples; i++ {
		angle := 2 * math.Pi * float64(i) / circleSamples
		pts[i] = Point2D{
			X: c.Center.X + c.Radius*math.Cos(angle),
			Y: c.Center.Y + c.Radius*math.Sin(angle),
		}
	}
	return pts
}

// sampleEvaluator samples a parametric curve at n uniform steps. A
// sample that fails to evaluate is skipped rather than failing the
// whole curve. With inclusive set, both t=0 and t=1 are sampled.
func sampleEvaluator(eval Evaluator, n int, inclusive bool) []Point2D {
	if eval == nil {
		return nil
	}
	last := n - 1
	if inclusive {
		last = n
	}
	pts := make([]Point2D, 0, last+1)
	for i := 0; i <= last; i++ {
		p, err := eval(float64(i) / float64(n))
		if err != nil {
			continue
		}
		pts = append(pts, p)
	}
	return pts
}
