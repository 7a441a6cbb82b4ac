package importer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/firebridgecam/plasma-core/internal/geom"
	"github.com/firebridgecam/plasma-core/internal/unit"
)

func TestUnitsModeTolerance(t *testing.T) {
	if got := Metric.tolerance(); got != 0.05 {
		t.Errorf("metric tolerance = %f", got)
	}
	if got := Imperial.tolerance(); got != 0.002 {
		t.Errorf("imperial tolerance = %f", got)
	}
	if Metric.String() != "metric" || Imperial.String() != "imperial" {
		t.Error("unexpected mode names")
	}
}

func TestLineScaledByDeclaredUnit(t *testing.T) {
	// A line from (0,0) to (10,0) declared in inches assembles to
	// millimeter endpoints (0,0) and (254,0).
	line := geom.Line{Start: geom.Point2D{X: 0, Y: 0}, End: geom.Point2D{X: 10, Y: 0}}
	scale := unit.ScaleToMM("in")

	pts := geom.Flatten(line, dxfBaseTolerance/scale)
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	closed, pts := geom.Classify(line, pts)
	if closed {
		t.Error("open line must stay open")
	}
	scaled := geom.Scale(pts, scale)
	if scaled[0] != (geom.Point2D{X: 0, Y: 0}) || scaled[1] != (geom.Point2D{X: 254, Y: 0}) {
		t.Errorf("unexpected scaled points: %v", scaled)
	}
}

func TestLoadDispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	svgFile := filepath.Join(dir, "drawing.SVG")
	if err := os.WriteFile(svgFile, []byte(`<svg><path d="M0,0 L10,0"/></svg>`), 0644); err != nil {
		t.Fatal(err)
	}
	paths := Load(svgFile)
	if len(paths) != 1 || paths[0].Source != SourceSVG {
		t.Fatalf("expected one SVG path, got %v", paths)
	}
}

func TestLoadUnknownExtensionFallsBackToSVG(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "drawing.dat")
	if err := os.WriteFile(file, []byte(`<svg><path d="M0,0 L10,0"/></svg>`), 0644); err != nil {
		t.Fatal(err)
	}
	paths := Load(file)
	if len(paths) != 1 || paths[0].Source != SourceSVG {
		t.Fatalf("expected the SVG fallback to fire, got %v", paths)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if paths := Load(filepath.Join(t.TempDir(), "nope.dat")); len(paths) != 0 {
		t.Errorf("missing file must load as empty, got %d paths", len(paths))
	}
}

func TestNewLoaderNilLogger(t *testing.T) {
	l := NewLoader(nil)
	if l.logger == nil {
		t.Fatal("nil logger must be replaced with a nop logger")
	}
	// And a custom logger is kept.
	custom := zap.NewNop()
	if NewLoader(custom).logger != custom {
		t.Error("custom logger not retained")
	}
}

func TestLoadIdempotent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "drawing.svg")
	content := `<svg><path id="x" d="M0,0 L10,0 M1,1 L2,2 Z"/></svg>`
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(Load(file), Load(file)) {
		t.Error("two loads of one file must be value-equal")
	}
}
