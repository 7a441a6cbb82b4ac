package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/firebridgecam/plasma-core/internal/geom"
	"github.com/firebridgecam/plasma-core/internal/importer"
)

const manifestSheet = "Paths"

var manifestHeaders = []string{
	"#", "Source", "Layer", "Color", "Closed",
	"Points", "Length (mm)", "Width (mm)", "Height (mm)",
}

// WriteManifest writes an xlsx workbook with one row per path:
// provenance, closure, point count, polyline length and bounding-box
// size in millimeters.
func WriteManifest(path string, paths []importer.Path) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", manifestSheet); err != nil {
		return fmt.Errorf("cannot name manifest sheet: %w", err)
	}

	for col, header := range manifestHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(manifestSheet, cell, header); err != nil {
			return err
		}
	}

	for i, p := range paths {
		min, max := geom.BoundingBox(p.Points)
		values := []interface{}{
			i + 1,
			string(p.Source),
			p.Layer,
			p.Color,
			p.Closed,
			len(p.Points),
			geom.Length(p.Points),
			max.X - min.X,
			max.Y - min.Y,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(manifestSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot save manifest: %w", err)
	}
	return nil
}
