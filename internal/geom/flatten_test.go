package geom

import (
	"errors"
	"math"
	"testing"
)

func TestFlattenLineEndpoints(t *testing.T) {
	pts := Flatten(Line{Start: Point2D{X: 0, Y: 0}, End: Point2D{X: 10, Y: 0}}, 0.25)
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0] != (Point2D{X: 0, Y: 0}) || pts[1] != (Point2D{X: 10, Y: 0}) {
		t.Errorf("unexpected endpoints: %v", pts)
	}
}

func TestFlattenArcQuarter(t *testing.T) {
	arc := Arc{Center: Point2D{X: 0, Y: 0}, Radius: 5, StartAngle: 0, EndAngle: 90}
	pts := Flatten(arc, 0.25)
	if len(pts) < 13 {
		t.Fatalf("expected at least 13 points, got %d", len(pts))
	}

	if pts[0] != (Point2D{X: 5, Y: 0}) {
		t.Errorf("first point should be exactly (5,0), got %v", pts[0])
	}
	last := pts[len(pts)-1]
	if math.Abs(last.X) > 1e-9 || math.Abs(last.Y-5) > 1e-9 {
		t.Errorf("last point should be (0,5), got %v", last)
	}

	// Angular progression must be strictly monotonic.
	prev := math.Atan2(pts[0].Y, pts[0].X)
	for _, p := range pts[1:] {
		angle := math.Atan2(p.Y, p.X)
		if angle <= prev {
			t.Fatalf("angle not strictly increasing at %v", p)
		}
		prev = angle
	}

	for _, p := range pts {
		if math.Abs(math.Hypot(p.X, p.Y)-5) > 1e-9 {
			t.Errorf("point %v not on radius 5", p)
		}
	}
}

func TestFlattenArcNormalizesEndAngle(t *testing.T) {
	arc := Arc{Center: Point2D{X: 0, Y: 0}, Radius: 1, StartAngle: 350, EndAngle: 10}
	pts := Flatten(arc, 1)
	if len(pts) < 2 {
		t.Fatalf("expected points, got %d", len(pts))
	}
	first := pts[0]
	last := pts[len(pts)-1]
	if math.Abs(first.X-math.Cos(350*math.Pi/180)) > 1e-9 {
		t.Errorf("first point should sit at 350 degrees, got %v", first)
	}
	if math.Abs(last.X-math.Cos(10*math.Pi/180)) > 1e-9 || last.Y < 0 {
		t.Errorf("last point should sit at 10 degrees, got %v", last)
	}
}

func TestFlattenCircleSamples(t *testing.T) {
	pts := Flatten(Circle{Center: Point2D{X: 0, Y: 0}, Radius: 10}, 0.25)
	if len(pts) != 64 {
		t.Fatalf("expected 64 samples, got %d", len(pts))
	}
	for _, p := range pts {
		if math.Abs(math.Hypot(p.X, p.Y)-10) > 1e-9 {
			t.Errorf("point %v not at distance 10 from center", p)
		}
	}
	if pts[0] == pts[len(pts)-1] {
		t.Error("circle samples should leave the ring open for the closure stage")
	}
}

func TestFlattenEllipseEvaluator(t *testing.T) {
	eval := func(tt float64) (Point2D, error) {
		angle := 2 * math.Pi * tt
		return Point2D{X: 4 * math.Cos(angle), Y: 2 * math.Sin(angle)}, nil
	}
	pts := Flatten(Ellipse{Eval: eval}, 0.25)
	if len(pts) != 64 {
		t.Fatalf("expected 64 samples, got %d", len(pts))
	}
	for _, p := range pts {
		v := (p.X*p.X)/16 + (p.Y*p.Y)/4
		if math.Abs(v-1) > 1e-9 {
			t.Errorf("point %v not on the ellipse", p)
		}
	}
}

func TestFlattenEllipseWithoutEvaluator(t *testing.T) {
	if pts := Flatten(Ellipse{}, 0.25); pts != nil {
		t.Errorf("expected nil for evaluator-less ellipse, got %v", pts)
	}
}

func TestFlattenSplineSkipsFailedSamples(t *testing.T) {
	eval := func(tt float64) (Point2D, error) {
		if tt < 0.5 {
			return Point2D{}, errors.New("not evaluable here")
		}
		return Point2D{X: tt, Y: 0}, nil
	}
	pts := Flatten(Spline{Eval: eval}, 0.25)
	if len(pts) != 65 {
		t.Fatalf("expected 65 surviving samples, got %d", len(pts))
	}
	if pts[0].X != 0.5 || pts[len(pts)-1].X != 1 {
		t.Errorf("unexpected sample range: %v .. %v", pts[0], pts[len(pts)-1])
	}
}

func TestFlattenSplineFallsBackToControlPoints(t *testing.T) {
	eval := func(tt float64) (Point2D, error) {
		return Point2D{}, errors.New("degenerate knot vector")
	}
	control := []Point2D{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}}
	pts := Flatten(Spline{Eval: eval, ControlPoints: control}, 0.25)
	if len(pts) != 3 {
		t.Fatalf("expected the 3 control points, got %d", len(pts))
	}
	if pts[1] != (Point2D{X: 5, Y: 5}) {
		t.Errorf("unexpected control point sequence: %v", pts)
	}
}

func TestFlattenSplineTotalFailure(t *testing.T) {
	eval := func(tt float64) (Point2D, error) {
		return Point2D{}, errors.New("degenerate knot vector")
	}
	if pts := Flatten(Spline{Eval: eval}, 0.25); pts != nil {
		t.Errorf("expected nil on total failure, got %v", pts)
	}
}

func TestFlattenPolylinePrefersAdaptive(t *testing.T) {
	dense := []Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}, {X: 3, Y: 1}}
	p := Polyline{
		Vertices: []Point2D{{X: 0, Y: 0}, {X: 3, Y: 1}},
		Adaptive: func(tol float64) ([]Point2D, error) { return dense, nil },
	}
	pts := Flatten(p, 0.25)
	if len(pts) != 4 {
		t.Fatalf("adaptive result should win, got %d points", len(pts))
	}
}

func TestFlattenPolylineAdaptiveFailureFallsBack(t *testing.T) {
	p := Polyline{
		Vertices: []Point2D{{X: 0, Y: 0}, {X: 3, Y: 1}},
		Adaptive: func(tol float64) ([]Point2D, error) { return nil, errors.New("no bulge data") },
	}
	pts := Flatten(p, 0.25)
	if len(pts) != 2 {
		t.Fatalf("expected raw vertices fallback, got %d points", len(pts))
	}
}

func TestFlattenSingleVertexPolylineDropped(t *testing.T) {
	if pts := Flatten(Polyline{Vertices: []Point2D{{X: 1, Y: 1}}}, 0.25); pts != nil {
		t.Errorf("one-point result must be rejected, got %v", pts)
	}
}
