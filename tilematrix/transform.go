package tilematrix

import (
	"github.com/pdok/vtcomposite/intgeom"
)

// Transform moves tile-local coordinates of a source tile into the local
// coordinate space of a destination tile with the same extent.
//
// With Shift >= 0 (overzoom or same zoom): p' = p << Shift + Translate
// With Shift < 0 (underzoom/mosaic):       p' = (p + Translate) >> -Shift, floored
type Transform struct {
	Shift     int
	Translate intgeom.Point
}

// TransformFor computes the transform from src to dest for layers with the given extent.
// Same-zoom tiles with different x/y are offset by whole extents,
// so only equal coordinates result in the identity transform.
func TransformFor(src, dest Coordinate, extent uint32) Transform {
	delta := ZoomDelta(dest, src)
	e := int64(extent)
	if delta >= 0 {
		d := uint(delta)
		return Transform{
			Shift: delta,
			Translate: intgeom.Point{
				(int64(src.X)<<d - int64(dest.X)) * e,
				(int64(src.Y)<<d - int64(dest.Y)) * e,
			},
		}
	}
	k := uint(-delta)
	return Transform{
		Shift: delta,
		Translate: intgeom.Point{
			(int64(src.X) - int64(dest.X)<<k) * e,
			(int64(src.Y) - int64(dest.Y)<<k) * e,
		},
	}
}

func (t Transform) IsIdentity() bool {
	return t.Shift == 0 && t.Translate == intgeom.Point{}
}

func (t Transform) Apply(p intgeom.Point) intgeom.Point {
	if t.Shift >= 0 {
		s := uint(t.Shift)
		return intgeom.Point{p[0]<<s + t.Translate[0], p[1]<<s + t.Translate[1]}
	}
	// flooring keeps [0, extent) of every source within [0, extent) of dest
	k := uint(-t.Shift)
	return intgeom.Point{(p[0] + t.Translate[0]) >> k, (p[1] + t.Translate[1]) >> k}
}

// ApplyPath transforms all points of a path into a new slice
func (t Transform) ApplyPath(path []intgeom.Point) []intgeom.Point {
	out := make([]intgeom.Point, len(path))
	for i, p := range path {
		out[i] = t.Apply(p)
	}
	return out
}

// ApplyExtent transforms a bounding box
func (t Transform) ApplyExtent(e intgeom.Extent) intgeom.Extent {
	minPt := t.Apply(intgeom.Point{e.MinX(), e.MinY()})
	maxPt := t.Apply(intgeom.Point{e.MaxX(), e.MaxY()})
	return intgeom.Extent{minPt[0], minPt[1], maxPt[0], maxPt[1]}
}
