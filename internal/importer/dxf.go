package importer

import (
	"math"
	"strconv"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
	"go.uber.org/zap"

	"github.com/firebridgecam/plasma-core/internal/geom"
	"github.com/firebridgecam/plasma-core/internal/unit"
)

// dxfBaseTolerance is the chordal flattening tolerance in
// millimeters; it is divided by the unit scale so the effective
// world-space error stays constant regardless of declared units.
const dxfBaseTolerance = 0.25

// bulgeArcSegments is the interpolation density for LWPOLYLINE bulge
// arcs.
const bulgeArcSegments = 32

// LoadDXF loads a DXF drawing and returns one Path per supported
// modelspace entity, in document order, scaled to millimeters
// according to the units token (default behavior of callers is "mm").
// An unreadable document yields an empty result; an entity that fails
// flattening is dropped without affecting its siblings.
func (l *Loader) LoadDXF(path, units string) []Path {
	log := l.loadLogger(path)

	scale := unit.ScaleToMM(units)
	tol := dxfBaseTolerance / scale

	drawing, err := dxf.Open(path)
	if err != nil {
		log.Warn("cannot open DXF document", zap.Error(err))
		return nil
	}

	var paths []Path
	for _, ent := range drawing.Entities() {
		ge, ok := dxfEntity(ent)
		if !ok {
			log.Debug("unsupported DXF entity skipped")
			continue
		}

		pts := geom.Flatten(ge, tol)
		if len(pts) < 2 {
			log.Debug("degenerate DXF entity dropped")
			continue
		}

		closed, pts := geom.Classify(ge, pts)

		paths = append(paths, Path{
			Points: geom.Scale(pts, scale),
			Closed: closed,
			Layer:  dxfLayer(ent),
			Color:  dxfColor(ent),
			Source: SourceDXF,
		})
	}

	log.Debug("DXF load finished", zap.Int("paths", len(paths)))
	return paths
}

// dxfEntity maps a parsed DXF entity onto the flattener's entity set.
// ok is false for entity types the reader does not model as usable 2D
// geometry (text, points, dimensions and so on).
func dxfEntity(ent entity.Entity) (geom.Entity, bool) {
	switch e := ent.(type) {
	case *entity.Line:
		return geom.Line{
			Start: geom.Point2D{X: e.Start[0], Y: e.Start[1]},
			End:   geom.Point2D{X: e.End[0], Y: e.End[1]},
		}, true

	case *entity.Arc:
		return geom.Arc{
			Center:     geom.Point2D{X: e.Circle.Center[0], Y: e.Circle.Center[1]},
			Radius:     e.Circle.Radius,
			StartAngle: e.Angle[0],
			EndAngle:   e.Angle[1],
		}, true

	case *entity.Circle:
		return geom.Circle{
			Center: geom.Point2D{X: e.Center[0], Y: e.Center[1]},
			Radius: e.Radius,
		}, true

	case *entity.LwPolyline:
		return lwPolylineEntity(e), true

	default:
		return nil, false
	}
}

// lwPolylineEntity wraps an LWPOLYLINE as a polyline entity whose
// adaptive capability interpolates bulge arcs; the raw vertices stay
// available as the flattening fallback.
func lwPolylineEntity(lw *entity.LwPolyline) geom.Polyline {
	vertices := make([]geom.Point2D, 0, len(lw.Vertices))
	bulges := make([]float64, 0, len(lw.Vertices))
	for i, v := range lw.Vertices {
		if len(v) < 2 {
			continue
		}
		vertices = append(vertices, geom.Point2D{X: v[0], Y: v[1]})
		if i < len(lw.Bulges) {
			bulges = append(bulges, lw.Bulges[i])
		} else {
			bulges = append(bulges, 0)
		}
	}

	return geom.Polyline{
		Vertices:      vertices,
		Closed:        lw.Closed,
		HasClosedFlag: true,
		Adaptive: func(tol float64) ([]geom.Point2D, error) {
			return flattenLwVertices(vertices, bulges, lw.Closed), nil
		},
	}
}

// flattenLwVertices expands a vertex/bulge list into a polyline,
// interpolating an arc wherever a vertex carries a bulge. A bulge on
// the final vertex of a closed polyline arcs back to the first one.
func flattenLwVertices(vertices []geom.Point2D, bulges []float64, closed bool) []geom.Point2D {
	var out []geom.Point2D
	for i, v := range vertices {
		bulge := 0.0
		if i < len(bulges) {
			bulge = bulges[i]
		}
		last := i == len(vertices)-1
		if math.Abs(bulge) < 1e-9 || (last && !closed) {
			out = append(out, v)
			continue
		}
		next := vertices[(i+1)%len(vertices)]
		arc := bulgeArcPoints(v, next, bulge, bulgeArcSegments)
		// The next vertex produces the arc's final point itself.
		out = append(out, arc[:len(arc)-1]...)
	}
	return out
}

// bulgeArcPoints generates points along an arc defined by two
// endpoints and a DXF bulge factor, the tangent of a quarter of the
// included angle. Negative bulges sweep clockwise.
func bulgeArcPoints(p1, p2 geom.Point2D, bulge float64, segments int) []geom.Point2D {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chord := math.Sqrt(dx*dx + dy*dy)
	if chord < 1e-9 {
		return []geom.Point2D{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	// Arc center sits on the chord's perpendicular bisector.
	perpX := -dy / chord
	perpY := dx / chord
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := (p1.X+p2.X)/2 + perpX*dist
	cy := (p1.Y+p2.Y)/2 + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	pts := make([]geom.Point2D, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, geom.Point2D{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// dxfLayer resolves the entity's layer name, falling back to the DXF
// default layer.
func dxfLayer(ent entity.Entity) string {
	if layer := ent.Layer(); layer != nil {
		if name := layer.Name(); name != "" {
			return name
		}
	}
	return "0"
}

// dxfColor resolves the entity's ACI color code as a string. yofu/dxf
// keeps the group 62 color on the layer table rather than on the
// entity, so the effective color is the layer's; a non-positive code
// means unset.
func dxfColor(ent entity.Entity) string {
	if layer := ent.Layer(); layer != nil {
		if code := int(layer.Color); code > 0 {
			return strconv.Itoa(code)
		}
	}
	return ""
}
