package geom

// Adaptive is a tolerance-bounded flattening capability carried by an
// entity whose source format can do better than uniform sampling. The
// returned sequence must keep the maximum chordal deviation within
// tol, expressed in the entity's native units.
type Adaptive func(tol float64) ([]Point2D, error)

// Evaluator maps a normalized parameter t in [0,1] to a point on a
// curve. Individual evaluations may fail without failing the curve.
type Evaluator func(t float64) (Point2D, error)

// Entity is the closed set of geometric kinds accepted by Flatten and
// Classify. Entities are transient: they exist only between document
// parsing and path assembly.
type Entity interface {
	adaptive() Adaptive
}

// Line is a straight segment between two points.
type Line struct {
	Start    Point2D
	End      Point2D
	Adaptive Adaptive
}

// Arc is a circular arc. Angles are in degrees, counter-clockwise,
// following the DXF convention; EndAngle may be numerically below
// StartAngle and is normalized during flattening.
type Arc struct {
	Center     Point2D
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Adaptive   Adaptive
}

// Circle is a full circle.
type Circle struct {
	Center   Point2D
	Radius   float64
	Adaptive Adaptive
}

// Ellipse is a closed elliptic curve exposed through its parametric
// evaluator.
type Ellipse struct {
	Eval     Evaluator
	Adaptive Adaptive
}

// Spline is a free-form curve exposed through its parametric
// evaluator, with the raw control points kept as a last-resort
// approximation. Closed reports the format's closed attribute and is
// meaningful only when HasClosedFlag is set.
type Spline struct {
	Eval          Evaluator
	ControlPoints []Point2D
	Closed        bool
	HasClosedFlag bool
	Adaptive      Adaptive
}

// Polyline is a vertex sequence. Closed reports the format's explicit
// closed flag and is meaningful only when HasClosedFlag is set.
type Polyline struct {
	Vertices      []Point2D
	Closed        bool
	HasClosedFlag bool
	Adaptive      Adaptive
}

func (e Line) adaptive() Adaptive     { return e.Adaptive }
func (e Arc) adaptive() Adaptive      { return e.Adaptive }
func (e Circle) adaptive() Adaptive   { return e.Adaptive }
func (e Ellipse) adaptive() Adaptive  { return e.Adaptive }
func (e Spline) adaptive() Adaptive   { return e.Adaptive }
func (e Polyline) adaptive() Adaptive { return e.Adaptive }
