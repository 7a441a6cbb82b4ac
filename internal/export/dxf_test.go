package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/firebridgecam/plasma-core/internal/geom"
	"github.com/firebridgecam/plasma-core/internal/importer"
)

func squarePath(layer string) importer.Path {
	return importer.Path{
		Points: []geom.Point2D{
			{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}, {X: 0, Y: 0},
		},
		Closed: true,
		Layer:  layer,
		Source: importer.SourceDXF,
	}
}

func TestWriteDXFRejectsDegeneratePath(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.dxf")
	err := WriteDXF(out, []importer.Path{{Points: []geom.Point2D{{X: 1, Y: 1}}}})
	require.Error(t, err)
}

func TestWriteDXFRoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.dxf")
	require.NoError(t, WriteDXF(out, []importer.Path{squarePath("")}))

	// Each emitted LINE loads back as its own two-point path.
	loaded := importer.LoadDXF(out, "mm")
	require.Len(t, loaded, 4)
	for _, p := range loaded {
		require.Len(t, p.Points, 2)
		require.False(t, p.Closed)
		require.Equal(t, importer.SourceDXF, p.Source)
	}
	require.Equal(t, geom.Point2D{X: 0, Y: 0}, loaded[0].Points[0])
	require.Equal(t, geom.Point2D{X: 100, Y: 0}, loaded[0].Points[1])
}

func TestWriteDXFRoundTripScaled(t *testing.T) {
	out := filepath.Join(t.TempDir(), "inches.dxf")
	line := importer.Path{
		Points: []geom.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}},
		Source: importer.SourceDXF,
	}
	require.NoError(t, WriteDXF(out, []importer.Path{line}))

	loaded := importer.LoadDXF(out, "in")
	require.Len(t, loaded, 1)
	require.InDelta(t, 254, loaded[0].Points[1].X, 1e-9)
}

func TestWriteDXFLayerGrouping(t *testing.T) {
	out := filepath.Join(t.TempDir(), "layers.dxf")
	paths := []importer.Path{
		squarePath(""),
		squarePath("CUT"),
	}
	require.NoError(t, WriteDXF(out, paths))

	loaded := importer.LoadDXF(out, "mm")
	require.Len(t, loaded, 8)
}
