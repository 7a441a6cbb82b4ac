// Package export writes normalized paths back out for downstream
// tooling: a DXF drawing for CAD round-trips and an xlsx manifest for
// shop-floor review.
package export

import (
	"fmt"

	"github.com/yofu/dxf"

	"github.com/firebridgecam/plasma-core/internal/importer"
)

// WriteDXF writes the paths to a DXF drawing in millimeters. Each
// path becomes a run of LINE entities on its source layer (paths
// without a layer land on the default layer "0"); closed paths are
// already ring-closed so no extra segment is needed. Paths with fewer
// than two points are rejected before any output is produced.
func WriteDXF(path string, paths []importer.Path) error {
	for i, p := range paths {
		if len(p.Points) < 2 {
			return fmt.Errorf("path %d has fewer than two points", i)
		}
	}

	drawing := dxf.NewDrawing()

	// The default layer "0" is current on a fresh drawing, so its
	// paths go first; every other layer is added (and made current)
	// before its paths are written.
	for _, layer := range layerOrder(paths) {
		if layer != "0" {
			drawing.AddLayer(layer, dxf.DefaultColor, dxf.DefaultLineType, true)
		}
		for _, p := range paths {
			if layerName(p) != layer {
				continue
			}
			for i := 0; i < len(p.Points)-1; i++ {
				drawing.Line(
					p.Points[i].X, p.Points[i].Y, 0,
					p.Points[i+1].X, p.Points[i+1].Y, 0,
				)
			}
		}
	}

	if err := drawing.SaveAs(path); err != nil {
		return fmt.Errorf("cannot save DXF file: %w", err)
	}
	return nil
}

// layerName resolves a path's output layer, defaulting to the DXF
// default layer.
func layerName(p importer.Path) string {
	if p.Layer == "" {
		return "0"
	}
	return p.Layer
}

// layerOrder returns the distinct layers in first-appearance order,
// with the default layer always first.
func layerOrder(paths []importer.Path) []string {
	seen := map[string]bool{"0": true}
	order := []string{"0"}
	for _, p := range paths {
		name := layerName(p)
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	return order
}
