package composite

import (
	"testing"

	"github.com/pdok/vtcomposite/intgeom"
	"github.com/pdok/vtcomposite/mvt"
	"github.com/pdok/vtcomposite/tilematrix"
	"github.com/pdok/vtcomposite/vectortile"
	"github.com/stretchr/testify/require"
)

// linesLayer has two long lines crossing the center area of the tile
func linesLayer() mvt.Layer {
	diagonal := mvt.NewFeature(mvt.NewLineString([]intgeom.Point{{256, 256}, {3840, 3840}})).WithID(1)
	diagonal.Properties.Set("name", mvt.StringValue("diagonal"))
	diagonal.Properties.Set("class", mvt.StringValue("primary"))
	horizontal := mvt.NewFeature(mvt.NewLineString([]intgeom.Point{{256, 3000}, {3840, 3000}})).WithID(2)
	horizontal.Properties.Set("name", mvt.StringValue("horizontal"))
	horizontal.Properties.Set("class", mvt.StringValue("primary"))
	return mvt.NewLayer("lines", diagonal, horizontal)
}

// pointsLayer has a single point
func pointsLayer(pt intgeom.Point) mvt.Layer {
	poi := mvt.NewFeature(mvt.NewPoint(pt)).WithID(10)
	poi.Properties.Set("population", mvt.UintValue(1200))
	return mvt.NewLayer("points", poi)
}

// pointsAt puts the point in the middle of the tile, except for 1/1/1 where
// it lies just outside the tile, near null island, within a 5px buffer
func pointsAt(c tilematrix.Coordinate) mvt.Layer {
	if c == tilematrix.MustCoordinate(1, 1, 1) {
		return pointsLayer(intgeom.Point{-10, -10})
	}
	return pointsLayer(intgeom.Point{2048, 2048})
}

func rawTile(t *testing.T, c string, layers ...mvt.Layer) *vectortile.VectorTile {
	t.Helper()
	coord, err := tilematrix.ParseCoordinate(c)
	require.NoError(t, err)
	raw := mvt.Encode(layers)
	require.NotEmpty(t, raw)
	return vectortile.FromRaw(coord, raw)
}

func linesTile(t *testing.T, c string) *vectortile.VectorTile {
	t.Helper()
	return rawTile(t, c, linesLayer())
}

func pointsTile(t *testing.T, c string) *vectortile.VectorTile {
	t.Helper()
	coord, err := tilematrix.ParseCoordinate(c)
	require.NoError(t, err)
	return rawTile(t, c, pointsAt(coord))
}

func decode(t *testing.T, b []byte) []mvt.Layer {
	t.Helper()
	layers, err := mvt.Decode(b)
	require.NoError(t, err)
	return layers
}

func featureCounts(layers []mvt.Layer) []int {
	counts := make([]int, len(layers))
	for i, l := range layers {
		counts[i] = len(l.Features)
	}
	return counts
}
