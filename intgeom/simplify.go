package intgeom

import (
	"context"

	"github.com/go-spatial/geom/planar/simplify"
)

// Simplify runs Douglas-Peucker over the path with the given tolerance in tile-local units.
// A tolerance <= 0 returns the path as is.
func Simplify(ctx context.Context, path []Point, tolerance float64, closed bool) ([]Point, error) {
	if tolerance <= 0 || len(path) <= 2 {
		return path, nil
	}
	dp := simplify.DouglasPeucker{Tolerance: tolerance}
	simplified, err := dp.Simplify(ctx, ToGeomPoints(path), closed)
	if err != nil {
		return nil, err
	}
	return Dedupe(FromGeomPoints(simplified), closed), nil
}
