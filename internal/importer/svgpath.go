package importer

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/firebridgecam/plasma-core/internal/geom"
)

// maxSubdivisionDepth bounds the recursive bezier subdivision so a
// pathological control polygon cannot recurse unboundedly.
const maxSubdivisionDepth = 18

type segKind int

const (
	segLine segKind = iota
	segQuad
	segCubic
	segArc
)

// pathSegment is one absolute-coordinate segment of a parsed subpath.
// p0 is the start point and p3 the end point for every kind; p1 holds
// the quadratic control point, p1/p2 the cubic ones. Arc segments
// additionally carry their center parametrization.
type pathSegment struct {
	kind segKind

	p0, p1, p2, p3 geom.Point2D

	center geom.Point2D
	rx, ry float64
	phi    float64 // x-axis rotation, radians
	theta1 float64 // start angle, radians
	dtheta float64 // signed sweep, radians
}

// point evaluates the segment at local parameter t in [0,1].
func (s pathSegment) point(t float64) geom.Point2D {
	switch s.kind {
	case segQuad:
		mt := 1 - t
		return geom.Point2D{
			X: mt*mt*s.p0.X + 2*mt*t*s.p1.X + t*t*s.p3.X,
			Y: mt*mt*s.p0.Y + 2*mt*t*s.p1.Y + t*t*s.p3.Y,
		}
	case segCubic:
		mt := 1 - t
		return geom.Point2D{
			X: mt*mt*mt*s.p0.X + 3*mt*mt*t*s.p1.X + 3*mt*t*t*s.p2.X + t*t*t*s.p3.X,
			Y: mt*mt*mt*s.p0.Y + 3*mt*mt*t*s.p1.Y + 3*mt*t*t*s.p2.Y + t*t*t*s.p3.Y,
		}
	case segArc:
		theta := s.theta1 + t*s.dtheta
		cosT, sinT := math.Cos(theta), math.Sin(theta)
		cosP, sinP := math.Cos(s.phi), math.Sin(s.phi)
		return geom.Point2D{
			X: s.center.X + s.rx*cosT*cosP - s.ry*sinT*sinP,
			Y: s.center.Y + s.rx*cosT*sinP + s.ry*sinT*cosP,
		}
	default:
		return geom.Point2D{
			X: s.p0.X + t*(s.p3.X-s.p0.X),
			Y: s.p0.Y + t*(s.p3.Y-s.p0.Y),
		}
	}
}

// appendFlattened appends the segment's polyline approximation to
// out, excluding the segment's start point (the previous segment
// already produced it) and ending exactly on p3.
func (s pathSegment) appendFlattened(tol float64, out []geom.Point2D) []geom.Point2D {
	switch s.kind {
	case segLine:
		return append(out, s.p3)
	case segQuad:
		out = subdivideQuad(s.p0, s.p1, s.p3, tol, 0, out)
		return append(out, s.p3)
	case segCubic:
		out = subdivideCubic(s.p0, s.p1, s.p2, s.p3, tol, 0, out)
		return append(out, s.p3)
	default:
		n := s.arcSteps(tol)
		for i := 1; i < n; i++ {
			out = append(out, s.point(float64(i)/float64(n)))
		}
		return append(out, s.p3)
	}
}

// arcSteps picks the uniform step count that keeps the sagitta of
// each chord within tol.
func (s pathSegment) arcSteps(tol float64) int {
	r := math.Max(s.rx, s.ry)
	if r <= 0 {
		return 1
	}
	arg := 1 - tol/r
	if arg <= -1 {
		return 2
	}
	step := 2 * math.Acos(arg)
	if step <= 0 || math.IsNaN(step) {
		return 64
	}
	n := int(math.Ceil(math.Abs(s.dtheta) / step))
	if n < 2 {
		n = 2
	}
	return n
}

// subdivideQuad appends interior points of a quadratic bezier until
// the control point sits within tol of the chord. Endpoints are
// handled by the caller.
func subdivideQuad(p0, c, p1 geom.Point2D, tol float64, depth int, out []geom.Point2D) []geom.Point2D {
	if depth >= maxSubdivisionDepth || distanceToChord(c, p0, p1) <= tol {
		return out
	}
	ab := midpoint(p0, c)
	bc := midpoint(c, p1)
	mid := midpoint(ab, bc)
	out = subdivideQuad(p0, ab, mid, tol, depth+1, out)
	out = append(out, mid)
	return subdivideQuad(mid, bc, p1, tol, depth+1, out)
}

// subdivideCubic is the cubic analogue of subdivideQuad.
func subdivideCubic(p0, c1, c2, p1 geom.Point2D, tol float64, depth int, out []geom.Point2D) []geom.Point2D {
	if depth >= maxSubdivisionDepth {
		return out
	}
	if distanceToChord(c1, p0, p1) <= tol && distanceToChord(c2, p0, p1) <= tol {
		return out
	}
	ab := midpoint(p0, c1)
	bc := midpoint(c1, c2)
	cd := midpoint(c2, p1)
	abbc := midpoint(ab, bc)
	bccd := midpoint(bc, cd)
	mid := midpoint(abbc, bccd)
	out = subdivideCubic(p0, ab, abbc, mid, tol, depth+1, out)
	out = append(out, mid)
	return subdivideCubic(mid, bccd, cd, p1, tol, depth+1, out)
}

func midpoint(a, b geom.Point2D) geom.Point2D {
	return geom.Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// distanceToChord returns the distance from p to the line through a
// and b, degrading to plain point distance when the chord collapses.
func distanceToChord(p, a, b geom.Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length < 1e-12 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	return math.Abs(dx*(a.Y-p.Y)-dy*(a.X-p.X)) / length
}

// svgPath is one parsed subpath: a connected run of segments in
// absolute coordinates, plus whether a close command terminated it.
type svgPath struct {
	segments []pathSegment
	closed   bool
}

// entity wraps the parsed subpath for the shared flattening stage:
// the segment walk is the adaptive capability, uniform parametric
// sampling the fallback.
func (p *svgPath) entity() geom.Entity {
	return geom.Spline{Eval: p.pointAt, Adaptive: p.flatten}
}

// flatten walks the segments in order and emits the subpath's
// polyline approximation within tol.
func (p *svgPath) flatten(tol float64) ([]geom.Point2D, error) {
	if len(p.segments) == 0 {
		return nil, errors.New("subpath has no segments")
	}
	if tol <= 0 {
		tol = 1e-3
	}
	pts := []geom.Point2D{p.segments[0].p0}
	for _, s := range p.segments {
		pts = s.appendFlattened(tol, pts)
	}
	return pts, nil
}

// pointAt evaluates the subpath at a global parameter in [0,1],
// distributing t uniformly across segments.
func (p *svgPath) pointAt(t float64) (geom.Point2D, error) {
	n := len(p.segments)
	if n == 0 {
		return geom.Point2D{}, errors.New("subpath has no segments")
	}
	if t <= 0 {
		return p.segments[0].p0, nil
	}
	if t >= 1 {
		return p.segments[n-1].p3, nil
	}
	u := t * float64(n)
	idx := int(u)
	if idx >= n {
		idx = n - 1
	}
	return p.segments[idx].point(u - float64(idx)), nil
}

// isClosed reports whether the subpath was terminated by a close
// command or geometrically returns to its start.
func (p *svgPath) isClosed() bool {
	if p.closed {
		return true
	}
	if len(p.segments) == 0 {
		return false
	}
	return p.segments[0].p0 == p.segments[len(p.segments)-1].p3
}

// pathScanner tokenizes SVG path data: command letters, numbers and
// the single-digit arc flags, with commas and whitespace as
// interchangeable separators.
type pathScanner struct {
	data string
	pos  int
}

func (s *pathScanner) skipSeparators() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *pathScanner) done() bool {
	s.skipSeparators()
	return s.pos >= len(s.data)
}

// command consumes the next byte when it is a command letter.
func (s *pathScanner) command() (byte, bool) {
	s.skipSeparators()
	if s.pos >= len(s.data) {
		return 0, false
	}
	c := s.data[s.pos]
	if (c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') && c != 'e' && c != 'E' {
		s.pos++
		return c, true
	}
	return 0, false
}

// number consumes one floating point literal.
func (s *pathScanner) number() (float64, error) {
	s.skipSeparators()
	start := s.pos
	if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
		s.pos++
	}
	digits := 0
	for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
		s.pos++
		digits++
	}
	if s.pos < len(s.data) && s.data[s.pos] == '.' {
		s.pos++
		for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
			s.pos++
			digits++
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	if s.pos < len(s.data) && (s.data[s.pos] == 'e' || s.data[s.pos] == 'E') {
		mark := s.pos
		s.pos++
		if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
			s.pos++
		}
		expDigits := 0
		for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
			s.pos++
			expDigits++
		}
		if expDigits == 0 {
			// Not an exponent after all (e.g. a following command).
			s.pos = mark
		}
	}
	return strconv.ParseFloat(s.data[start:s.pos], 64)
}

// flag consumes one arc flag, which the grammar allows to be packed
// against the following number without a separator.
func (s *pathScanner) flag() (bool, error) {
	s.skipSeparators()
	if s.pos >= len(s.data) {
		return false, errors.New("expected arc flag")
	}
	switch s.data[s.pos] {
	case '0':
		s.pos++
		return false, nil
	case '1':
		s.pos++
		return true, nil
	default:
		return false, fmt.Errorf("invalid arc flag %q at offset %d", s.data[s.pos], s.pos)
	}
}

// parsePathData parses one subpath's command string into absolute
// segments. The fragment must begin with a move command; any grammar
// violation fails the whole fragment so the caller can drop it.
func parsePathData(data string) (*svgPath, error) {
	s := &pathScanner{data: data}
	p := &svgPath{}

	var (
		cmd       byte
		current   geom.Point2D
		start     geom.Point2D
		cubicCtrl geom.Point2D
		quadCtrl  geom.Point2D
		hasCubic  bool
		hasQuad   bool
		started   bool
	)

	// Any segment added after a close reopens the subpath; the Z case
	// sets closed again after emitting its closing line.
	addSegment := func(seg pathSegment) {
		p.segments = append(p.segments, seg)
		current = seg.p3
		p.closed = false
	}

	for !s.done() {
		if c, ok := s.command(); ok {
			cmd = c
		} else if cmd == 0 {
			return nil, fmt.Errorf("expected command at offset %d", s.pos)
		} else if cmd == 'Z' || cmd == 'z' {
			// Close takes no operands, so only a command letter may
			// follow it; repeating it here would never advance.
			return nil, fmt.Errorf("expected command after close at offset %d", s.pos)
		} else if cmd == 'M' {
			// Implicit repetition of a move continues as lineto.
			cmd = 'L'
		} else if cmd == 'm' {
			cmd = 'l'
		}

		relative := cmd >= 'a' && cmd <= 'z'
		upper := cmd
		if relative {
			upper = cmd - 'a' + 'A'
		}
		if !started && upper != 'M' {
			return nil, fmt.Errorf("path data must start with a move command, got %q", cmd)
		}

		nextCubic := false
		nextQuad := false

		switch upper {
		case 'M':
			x, err := s.number()
			if err != nil {
				return nil, err
			}
			y, err := s.number()
			if err != nil {
				return nil, err
			}
			if relative {
				x += current.X
				y += current.Y
			}
			current = geom.Point2D{X: x, Y: y}
			start = current
			started = true

		case 'L':
			to, err := s.readPoint(current, relative)
			if err != nil {
				return nil, err
			}
			addSegment(pathSegment{kind: segLine, p0: current, p3: to})

		case 'H':
			x, err := s.number()
			if err != nil {
				return nil, err
			}
			if relative {
				x += current.X
			}
			addSegment(pathSegment{kind: segLine, p0: current, p3: geom.Point2D{X: x, Y: current.Y}})

		case 'V':
			y, err := s.number()
			if err != nil {
				return nil, err
			}
			if relative {
				y += current.Y
			}
			addSegment(pathSegment{kind: segLine, p0: current, p3: geom.Point2D{X: current.X, Y: y}})

		case 'C':
			c1, err := s.readPoint(current, relative)
			if err != nil {
				return nil, err
			}
			c2, err := s.readPoint(current, relative)
			if err != nil {
				return nil, err
			}
			to, err := s.readPoint(current, relative)
			if err != nil {
				return nil, err
			}
			addSegment(pathSegment{kind: segCubic, p0: current, p1: c1, p2: c2, p3: to})
			cubicCtrl = c2
			nextCubic = true

		case 'S':
			c2, err := s.readPoint(current, relative)
			if err != nil {
				return nil, err
			}
			to, err := s.readPoint(current, relative)
			if err != nil {
				return nil, err
			}
			c1 := current
			if hasCubic {
				c1 = reflectCtrl(cubicCtrl, current)
			}
			addSegment(pathSegment{kind: segCubic, p0: current, p1: c1, p2: c2, p3: to})
			cubicCtrl = c2
			nextCubic = true

		case 'Q':
			ctrl, err := s.readPoint(current, relative)
			if err != nil {
				return nil, err
			}
			to, err := s.readPoint(current, relative)
			if err != nil {
				return nil, err
			}
			addSegment(pathSegment{kind: segQuad, p0: current, p1: ctrl, p3: to})
			quadCtrl = ctrl
			nextQuad = true

		case 'T':
			to, err := s.readPoint(current, relative)
			if err != nil {
				return nil, err
			}
			ctrl := current
			if hasQuad {
				ctrl = reflectCtrl(quadCtrl, current)
			}
			addSegment(pathSegment{kind: segQuad, p0: current, p1: ctrl, p3: to})
			quadCtrl = ctrl
			nextQuad = true

		case 'A':
			rx, err := s.number()
			if err != nil {
				return nil, err
			}
			ry, err := s.number()
			if err != nil {
				return nil, err
			}
			rot, err := s.number()
			if err != nil {
				return nil, err
			}
			largeArc, err := s.flag()
			if err != nil {
				return nil, err
			}
			sweep, err := s.flag()
			if err != nil {
				return nil, err
			}
			to, err := s.readPoint(current, relative)
			if err != nil {
				return nil, err
			}
			if seg, ok := arcSegment(current, rx, ry, rot, largeArc, sweep, to); ok {
				addSegment(seg)
			} else {
				current = to
			}

		case 'Z':
			if current != start {
				addSegment(pathSegment{kind: segLine, p0: current, p3: start})
			}
			p.closed = true
			current = start

		default:
			return nil, fmt.Errorf("unsupported path command %q", cmd)
		}

		hasCubic = nextCubic
		hasQuad = nextQuad
	}

	if len(p.segments) == 0 {
		return nil, errors.New("path data contains no drawable segments")
	}
	return p, nil
}

// readPoint consumes an x,y pair, resolving relative coordinates
// against from.
func (s *pathScanner) readPoint(from geom.Point2D, relative bool) (geom.Point2D, error) {
	x, err := s.number()
	if err != nil {
		return geom.Point2D{}, err
	}
	y, err := s.number()
	if err != nil {
		return geom.Point2D{}, err
	}
	if relative {
		x += from.X
		y += from.Y
	}
	return geom.Point2D{X: x, Y: y}, nil
}

// reflectCtrl mirrors a control point through the current point, for
// the S and T shorthand commands.
func reflectCtrl(ctrl, about geom.Point2D) geom.Point2D {
	return geom.Point2D{X: 2*about.X - ctrl.X, Y: 2*about.Y - ctrl.Y}
}

// arcSegment converts an endpoint-parametrized elliptical arc to its
// center parametrization (SVG spec F.6.5), including the out-of-range
// radius correction. ok is false when the arc degenerates to nothing;
// zero radii degrade to a straight line per the spec.
func arcSegment(from geom.Point2D, rx, ry, rotDeg float64, largeArc, sweep bool, to geom.Point2D) (pathSegment, bool) {
	if from == to {
		return pathSegment{}, false
	}
	rx = math.Abs(rx)
	ry = math.Abs(ry)
	if rx == 0 || ry == 0 {
		return pathSegment{kind: segLine, p0: from, p3: to}, true
	}

	phi := rotDeg * math.Pi / 180
	cosP, sinP := math.Cos(phi), math.Sin(phi)

	dx2 := (from.X - to.X) / 2
	dy2 := (from.Y - to.Y) / 2
	x1p := cosP*dx2 + sinP*dy2
	y1p := -sinP*dx2 + cosP*dy2

	// Scale radii up when no ellipse of the requested size can reach
	// the endpoint.
	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		k := math.Sqrt(lambda)
		rx *= k
		ry *= k
	}

	rx2, ry2 := rx*rx, ry*ry
	x1p2, y1p2 := x1p*x1p, y1p*y1p
	radicand := (rx2*ry2 - rx2*y1p2 - ry2*x1p2) / (rx2*y1p2 + ry2*x1p2)
	if radicand < 0 {
		radicand = 0
	}
	coef := math.Sqrt(radicand)
	if largeArc == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	center := geom.Point2D{
		X: cosP*cxp - sinP*cyp + (from.X+to.X)/2,
		Y: sinP*cxp + cosP*cyp + (from.Y+to.Y)/2,
	}

	ux := (x1p - cxp) / rx
	uy := (y1p - cyp) / ry
	vx := (-x1p - cxp) / rx
	vy := (-y1p - cyp) / ry

	theta1 := vectorAngle(1, 0, ux, uy)
	dtheta := vectorAngle(ux, uy, vx, vy)
	if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	}
	if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	}

	return pathSegment{
		kind:   segArc,
		p0:     from,
		p3:     to,
		center: center,
		rx:     rx,
		ry:     ry,
		phi:    phi,
		theta1: theta1,
		dtheta: dtheta,
	}, true
}

// vectorAngle returns the signed angle from vector u to vector v.
func vectorAngle(ux, uy, vx, vy float64) float64 {
	dot := ux*vx + uy*vy
	length := math.Hypot(ux, uy) * math.Hypot(vx, vy)
	if length == 0 {
		return 0
	}
	cos := dot / length
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	angle := math.Acos(cos)
	if ux*vy-uy*vx < 0 {
		return -angle
	}
	return angle
}
