// Package intgeom resembles github.com/go-spatial/geom but uses int64s internally
// for the integer coordinate space of a vector tile.
//
// Tile-local coordinates are whole units of a layer's extent (usually 0..4096),
// so no decimals are kept. An int64 leaves room for magnifying a tile many zoom
// levels deep (4096 << 40 still fits) without overflowing while transforming.
// Where floating point is unavoidable (intersections, areas, simplification),
// results are rounded back to the nearest integer.
// This is not intended to cover everything. go-spatial/geom has much more functionality.
package intgeom

import (
	"math"
)

// M is short for measure.
// Used to indicate an ordinate in tile-local units.
type M = int64

// ToGeomOrd turns an ordinate represented as an integer into a floating point
func ToGeomOrd(o M) float64 {
	return float64(o)
}

// FromGeomOrd turns a floating point ordinate into an integer, rounding to the nearest unit
func FromGeomOrd(o float64) M {
	return int64(math.Round(o))
}
