// Package importer loads DXF and SVG drawings into a single unified
// representation: ordered millimeter-space point paths tagged with
// closure, layer and color metadata. Both loaders are total over
// malformed input at entity granularity: a bad entity or subpath is
// skipped, and only a wholly unreadable document yields an empty
// result.
package importer

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/firebridgecam/plasma-core/internal/geom"
)

// Source identifies the file format a path was extracted from.
type Source string

const (
	SourceDXF Source = "dxf"
	SourceSVG Source = "svg"
)

// Path is one flattened geometric entity. Points are in millimeters,
// ordered along the entity's natural parametrization; when Closed is
// set the first and last points are exactly equal. Layer and Color
// are empty when the source carried no such attribute. Paths are
// immutable once assembled and hold no reference to the document they
// came from.
type Path struct {
	Points []geom.Point2D `json:"points"`
	Closed bool           `json:"closed"`
	Layer  string         `json:"layer,omitempty"`
	Color  string         `json:"color,omitempty"`
	Source Source         `json:"source"`
}

// UnitsMode selects the SVG flattening tolerance. It is an explicit
// loader parameter rather than ambient application state.
type UnitsMode int

const (
	Metric UnitsMode = iota
	Imperial
)

func (m UnitsMode) String() string {
	if m == Imperial {
		return "imperial"
	}
	return "metric"
}

// tolerance returns the chordal tolerance used when flattening SVG
// subpaths, in SVG user units.
func (m UnitsMode) tolerance() float64 {
	if m == Metric {
		return 0.05
	}
	return 0.002
}

// Loader loads drawing files. The zero value works; a logger can be
// attached to surface per-entity skip diagnostics that the return
// value deliberately does not carry.
type Loader struct {
	logger *zap.Logger
}

// NewLoader returns a Loader that reports diagnostics through logger.
// A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// loadLogger scopes the loader's logger to a single load call.
func (l *Loader) loadLogger(path string) *zap.Logger {
	logger := l.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.With(
		zap.String("load_id", uuid.NewString()),
		zap.String("file", path),
	)
}

// Load loads a drawing, picking the loader by file extension. Files
// with an unknown extension are tried as DXF first and as SVG when
// that yields nothing, mirroring how operators feed this pipeline
// files with stripped or mangled names.
func (l *Loader) Load(path string) []Path {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dxf":
		return l.LoadDXF(path, "mm")
	case ".svg":
		return l.LoadSVG(path, Metric)
	default:
		if paths := l.LoadDXF(path, "mm"); len(paths) > 0 {
			return paths
		}
		return l.LoadSVG(path, Metric)
	}
}

// LoadDXF loads a DXF drawing with a default Loader. See
// Loader.LoadDXF.
func LoadDXF(path, units string) []Path {
	return NewLoader(nil).LoadDXF(path, units)
}

// LoadSVG loads an SVG drawing with a default Loader. See
// Loader.LoadSVG.
func LoadSVG(path string, mode UnitsMode) []Path {
	return NewLoader(nil).LoadSVG(path, mode)
}

// Load loads a drawing with a default Loader. See Loader.Load.
func Load(path string) []Path {
	return NewLoader(nil).Load(path)
}
