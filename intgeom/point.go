package intgeom

import (
	"github.com/go-spatial/geom"
)

// Point describes a simple 2D point
type Point [2]int64

func (p Point) ToGeomPoint() geom.Point {
	return geom.Point{
		ToGeomOrd(p[0]),
		ToGeomOrd(p[1]),
	}
}

func FromGeomPoint(p [2]float64) Point {
	return Point{
		FromGeomOrd(p[0]),
		FromGeomOrd(p[1]),
	}
}

// Sub returns the delta between p and q (p - q)
func (p Point) Sub(q Point) Point {
	return Point{p[0] - q[0], p[1] - q[1]}
}

// ToGeomPoints converts a path to float coordinates
func ToGeomPoints(pts []Point) [][2]float64 {
	floats := make([][2]float64, len(pts))
	for i, pt := range pts {
		floats[i] = pt.ToGeomPoint()
	}
	return floats
}

// FromGeomPoints converts a float path back to integer coordinates
func FromGeomPoints(floats [][2]float64) []Point {
	pts := make([]Point, len(floats))
	for i, f := range floats {
		pts[i] = FromGeomPoint(f)
	}
	return pts
}

// Dedupe drops consecutive duplicate points. When closed is set the last point
// is also dropped if it equals the first one.
func Dedupe(pts []Point, closed bool) []Point {
	if len(pts) == 0 {
		return pts
	}
	out := make([]Point, 0, len(pts))
	out = append(out, pts[0])
	for _, pt := range pts[1:] {
		if pt != out[len(out)-1] {
			out = append(out, pt)
		}
	}
	if closed {
		for len(out) > 1 && out[0] == out[len(out)-1] {
			out = out[:len(out)-1]
		}
	}
	return out
}
