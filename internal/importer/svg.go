package importer

import (
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/firebridgecam/plasma-core/internal/geom"
	"github.com/firebridgecam/plasma-core/internal/unit"
)

// svgEndpointTolerance is the absolute coordinate tolerance used for
// the geometric closure fallback, in SVG user units.
const svgEndpointTolerance = 1e-6

var (
	pathElementPattern = regexp.MustCompile(`(?i)<path\s+([^>]+?)/?>`)
	attributePattern   = regexp.MustCompile(`([\w:-]+)\s*=\s*"([^"]*)"`)
)

// LoadSVG reads an SVG file and returns one Path per subpath of every
// <path> element. Elements are located by text pattern matching over
// the raw markup; groups, transforms and non-path primitives are
// ignored. Coordinates are treated as 96-DPI pixels regardless of any
// document-declared unit or viewBox, so documents authored in
// physical units come out at pixel scale. The units mode only selects
// the flattening tolerance. An unreadable file yields an empty
// result; a bad subpath is dropped without affecting its siblings.
func (l *Loader) LoadSVG(path string, mode UnitsMode) []Path {
	log := l.loadLogger(path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("cannot read SVG document", zap.Error(err))
		return nil
	}

	tol := mode.tolerance()
	scale := unit.ScaleToMM("px")

	var paths []Path
	for _, match := range pathElementPattern.FindAllStringSubmatch(string(data), -1) {
		attrs := parseAttributes(match[1])
		d, ok := attrs["d"]
		if !ok || strings.TrimSpace(d) == "" {
			log.Debug("path element without d attribute skipped")
			continue
		}

		layer := attrs["id"]
		color := attrs["stroke"]
		if color == "none" {
			color = ""
		}

		for _, sub := range SplitSubpaths(d) {
			curve, err := parsePathData(sub)
			if err != nil {
				log.Debug("unparsable subpath skipped",
					zap.String("subpath", sub), zap.Error(err))
				continue
			}

			pts := geom.Flatten(curve.entity(), tol)
			if len(pts) < 2 {
				log.Debug("degenerate subpath dropped", zap.String("subpath", sub))
				continue
			}

			closed, pts := classifySubpath(sub, curve, pts)

			paths = append(paths, Path{
				Points: geom.Scale(pts, scale),
				Closed: closed,
				Layer:  layer,
				Color:  color,
				Source: SourceSVG,
			})
		}
	}

	log.Debug("SVG load finished", zap.Int("paths", len(paths)))
	return paths
}

// SplitSubpaths splits a path data string at every boundary preceding
// a move command, so each fragment begins with its own move and is
// handled downstream as an independent sub-figure. The split is
// purely lexical: fragments are not validated here, and
// whitespace-only fragments are discarded.
func SplitSubpaths(d string) []string {
	var subpaths []string
	start := 0
	for i := 0; i < len(d); i++ {
		if d[i] != 'M' && d[i] != 'm' {
			continue
		}
		if frag := strings.TrimSpace(d[start:i]); frag != "" {
			subpaths = append(subpaths, frag)
		}
		start = i
	}
	if frag := strings.TrimSpace(d[start:]); frag != "" {
		subpaths = append(subpaths, frag)
	}
	return subpaths
}

// parseAttributes extracts key="value" pairs from a raw element
// attribute list.
func parseAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attributePattern.FindAllStringSubmatch(raw, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

// classifySubpath decides ring closure for an SVG subpath: an
// explicit trailing close command wins, then the parsed curve's own
// closure, then endpoint coincidence within svgEndpointTolerance.
// A closed ring is force-closed exactly.
func classifySubpath(sub string, curve *svgPath, pts []geom.Point2D) (bool, []geom.Point2D) {
	trimmed := strings.TrimSpace(sub)
	closed := strings.HasSuffix(strings.ToUpper(trimmed), "Z") ||
		curve.isClosed() ||
		geom.Coincident(pts[0], pts[len(pts)-1], svgEndpointTolerance)
	if closed {
		return true, geom.ForceClose(pts)
	}
	return false, pts
}
