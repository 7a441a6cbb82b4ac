// firebridge is the CAD geometry extraction tool of the FireBridge
// CAM pipeline.
//
// Loads a DXF or SVG drawing, normalizes every entity into flattened
// millimeter-space paths, prints a per-path summary and optionally
// re-exports the result as a DXF drawing or an xlsx manifest.
//
// Build:
//   go build -o firebridge ./cmd/firebridge
//
// Usage:
//   firebridge [-units mm] [-mode metric] [-dxf out.dxf] [-manifest out.xlsx] [-v] drawing.dxf

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/firebridgecam/plasma-core/internal/export"
	"github.com/firebridgecam/plasma-core/internal/geom"
	"github.com/firebridgecam/plasma-core/internal/importer"
)

func main() {
	units := flag.String("units", "mm", "DXF drawing units (mm, cm, in, px)")
	mode := flag.String("mode", "metric", "SVG flattening mode (metric or imperial)")
	dxfOut := flag.String("dxf", "", "re-export the loaded paths to this DXF file")
	manifestOut := flag.String("manifest", "", "write a path manifest workbook (.xlsx) to this file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	file := flag.Arg(0)
	if file == "" {
		fmt.Fprintln(os.Stderr, "Usage: firebridge [flags] drawing.{dxf,svg}")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot set up logging: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	loader := importer.NewLoader(logger)

	var paths []importer.Path
	switch strings.ToLower(filepath.Ext(file)) {
	case ".dxf":
		paths = loader.LoadDXF(file, *units)
	case ".svg":
		paths = loader.LoadSVG(file, parseMode(*mode))
	default:
		paths = loader.Load(file)
	}

	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "No geometry found in %s\n", file)
		os.Exit(1)
	}

	printSummary(file, paths)

	if *dxfOut != "" {
		if err := export.WriteDXF(*dxfOut, paths); err != nil {
			fmt.Fprintf(os.Stderr, "DXF export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("DXF written to %s\n", *dxfOut)
	}
	if *manifestOut != "" {
		if err := export.WriteManifest(*manifestOut, paths); err != nil {
			fmt.Fprintf(os.Stderr, "Manifest export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Manifest written to %s\n", *manifestOut)
	}
}

func parseMode(s string) importer.UnitsMode {
	if strings.EqualFold(strings.TrimSpace(s), "imperial") {
		return importer.Imperial
	}
	return importer.Metric
}

func printSummary(file string, paths []importer.Path) {
	fmt.Printf("Loaded %s: %d paths\n", filepath.Base(file), len(paths))

	var all []geom.Point2D
	for i, p := range paths {
		state := "open"
		if p.Closed {
			state = "closed"
		}
		layer := p.Layer
		if layer == "" {
			layer = "-"
		}
		fmt.Printf("  %3d  %-3s  layer=%-12s  %-6s  %4d pts  %8.2f mm\n",
			i+1, p.Source, layer, state, len(p.Points), geom.Length(p.Points))
		all = append(all, p.Points...)
	}

	min, max := geom.BoundingBox(all)
	fmt.Printf("Extents: %.2f x %.2f mm (X %.2f..%.2f, Y %.2f..%.2f)\n",
		max.X-min.X, max.Y-min.Y, min.X, max.X, min.Y, max.Y)
}
