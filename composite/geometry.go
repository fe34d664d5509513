package composite

import (
	"context"

	"github.com/pdok/vtcomposite/intgeom"
	"github.com/pdok/vtcomposite/mathhelp"
	"github.com/pdok/vtcomposite/mvt"
	"github.com/pdok/vtcomposite/tilematrix"
)

// geometryProcessor moves geometries of one source layer into the destination tile
type geometryProcessor struct {
	transform tilematrix.Transform
	clip      intgeom.Extent
	threshold float64
	tolerance float64
}

// process transforms, clips, filters and simplifies g.
// The result is empty when nothing of g remains.
func (p geometryProcessor) process(ctx context.Context, g mvt.Geometry) (mvt.Geometry, error) {
	out := mvt.Geometry{Type: g.Type}
	switch g.Type {
	case mvt.GeomPoint:
		pts := make([]intgeom.Point, 0, len(g.Parts))
		for _, part := range g.Parts {
			for _, pt := range part {
				pts = append(pts, p.transform.Apply(pt))
			}
		}
		for _, pt := range intgeom.ClipPoints(pts, p.clip) {
			out.Parts = append(out.Parts, []intgeom.Point{pt})
		}
	case mvt.GeomLineString:
		for _, part := range g.Parts {
			path := intgeom.Dedupe(p.transform.ApplyPath(part), false)
			for _, clipped := range intgeom.ClipLineString(path, p.clip) {
				clipped, err := p.simplify(ctx, clipped, false)
				if err != nil {
					return mvt.Geometry{}, err
				}
				if len(clipped) < 2 || intgeom.Length(clipped) < p.threshold {
					continue
				}
				out.Parts = append(out.Parts, clipped)
			}
		}
	case mvt.GeomPolygon:
		// interior rings follow their exterior ring and are dropped with it
		keepInterior := false
		for i, ring := range g.Parts {
			ring = intgeom.Dedupe(p.transform.ApplyPath(ring), true)
			exterior := i == 0 || intgeom.SignedArea(ring) > 0
			if !exterior && !keepInterior {
				continue
			}
			clipped, err := p.simplify(ctx, intgeom.ClipRing(ring, p.clip), true)
			if err != nil {
				return mvt.Geometry{}, err
			}
			area := intgeom.SignedArea(clipped)
			keep := len(clipped) >= 3 && area != 0 && mathhelp.Abs(area) >= p.threshold
			if exterior {
				keepInterior = keep
			}
			if keep {
				out.Parts = append(out.Parts, clipped)
			}
		}
	}
	return out, nil
}

func (p geometryProcessor) simplify(ctx context.Context, path []intgeom.Point, closed bool) ([]intgeom.Point, error) {
	if p.tolerance <= 0 || path == nil {
		return path, nil
	}
	return intgeom.Simplify(ctx, path, p.tolerance, closed)
}
