// Package geom holds the 2D geometry shared by the drawing loaders:
// points, point-sequence helpers, the transient entity kinds that exist
// only while a document is being flattened, and the flattening and
// closure-classification stages themselves.
package geom

import "math"

// Point2D represents a 2D coordinate in drawing units (millimeters
// once a loader has scaled it).
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox returns the min and max corners of the point sequence.
func BoundingBox(pts []Point2D) (min, max Point2D) {
	if len(pts) == 0 {
		return Point2D{}, Point2D{}
	}
	min = pts[0]
	max = pts[0]
	for _, p := range pts[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Translate returns a copy of pts shifted by dx, dy.
func Translate(pts []Point2D, dx, dy float64) []Point2D {
	result := make([]Point2D, len(pts))
	for i, p := range pts {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Scale returns a copy of pts with both coordinates multiplied by
// factor.
func Scale(pts []Point2D, factor float64) []Point2D {
	result := make([]Point2D, len(pts))
	for i, p := range pts {
		result[i] = Point2D{X: p.X * factor, Y: p.Y * factor}
	}
	return result
}

// Length returns the total polyline length of the point sequence.
func Length(pts []Point2D) float64 {
	var total float64
	for i := 0; i < len(pts)-1; i++ {
		dx := pts[i+1].X - pts[i].X
		dy := pts[i+1].Y - pts[i].Y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

// Coincident checks whether two points match within an absolute
// per-axis tolerance.
func Coincident(a, b Point2D, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance
}
