package intgeom

import (
	"math"
)

// Extent represents the minx, miny, maxx and maxy
type Extent [4]int64

// TileExtent returns the nominal drawable area [0, size) of a tile,
// grown (or shrunk, when negative) by buffer on all sides.
func TileExtent(size uint32, buffer int64) Extent {
	return Extent{0, 0, int64(size), int64(size)}.Buffered(buffer)
}

// ExtentOf returns the bounding box of the given points.
// An empty set of points results in an empty extent.
func ExtentOf(pts ...[2]int64) Extent {
	if len(pts) == 0 {
		return Extent{0, 0, -1, -1}
	}
	e := Extent{math.MaxInt64, math.MaxInt64, math.MinInt64, math.MinInt64}
	for _, pt := range pts {
		e = e.AddPoint(pt)
	}
	return e
}

// MaxX is the larger of the x values.
func (e Extent) MaxX() int64 {
	return e[2]
}

// MinX  is the smaller of the x values.
func (e Extent) MinX() int64 {
	return e[0]
}

// MaxY is the larger of the y values.
func (e Extent) MaxY() int64 {
	return e[3]
}

// MinY is the smaller of the y values.
func (e Extent) MinY() int64 {
	return e[1]
}

// IsEmpty is true when the extent covers no area at all.
// A negative tile buffer can make a clip extent empty.
func (e Extent) IsEmpty() bool {
	return e[0] >= e[2] || e[1] >= e[3]
}

// Buffered grows the extent by b on all sides. A negative b shrinks it.
func (e Extent) Buffered(b int64) Extent {
	return Extent{e[0] - b, e[1] - b, e[2] + b, e[3] + b}
}

// AddPoint expands the extent to include pt
func (e Extent) AddPoint(pt [2]int64) Extent {
	return Extent{
		min(e[0], pt[0]),
		min(e[1], pt[1]),
		max(e[2], pt[0]),
		max(e[3], pt[1]),
	}
}

// ContainsPoint is half-open: [minx, maxx) x [miny, maxy)
func (e Extent) ContainsPoint(pt [2]int64) bool {
	return e[0] <= pt[0] && pt[0] < e[2] && e[1] <= pt[1] && pt[1] < e[3]
}

// ContainsExtent reports whether o lies completely within the closed extent e
func (e Extent) ContainsExtent(o Extent) bool {
	return e[0] <= o[0] && o[2] <= e[2] && e[1] <= o[1] && o[3] <= e[3]
}

// Intersects reports whether the closed extents share at least one point
func (e Extent) Intersects(o Extent) bool {
	return e[0] <= o[2] && o[0] <= e[2] && e[1] <= o[3] && o[1] <= e[3]
}

// Intersection is the overlap of e and o, empty when they do not overlap
func (e Extent) Intersection(o Extent) Extent {
	return Extent{max(e[0], o[0]), max(e[1], o[1]), min(e[2], o[2]), min(e[3], o[3])}
}

// Clamp moves pt onto the closed extent if it lies outside
func (e Extent) Clamp(pt Point) Point {
	return Point{
		min(max(pt[0], e[0]), e[2]),
		min(max(pt[1], e[1]), e[3]),
	}
}
