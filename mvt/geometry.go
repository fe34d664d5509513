package mvt

import (
	"fmt"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/muesli/reflow/truncate"
	"github.com/pdok/vtcomposite/intgeom"
)

// GeomType is the closed set of geometry kinds a feature can carry.
// Multi- variants are expressed by having more than one part.
type GeomType uint8

const (
	GeomUnknown    GeomType = 0
	GeomPoint      GeomType = 1
	GeomLineString GeomType = 2
	GeomPolygon    GeomType = 3
)

func (t GeomType) String() string {
	switch t {
	case GeomPoint:
		return "Point"
	case GeomLineString:
		return "LineString"
	case GeomPolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Geometry is a tagged variant over the geometry kinds.
//
// Parts holds the subpaths in tile-local coordinates:
//   - Point: one part per point (a MultiPoint has several parts)
//   - LineString: one part per line string
//   - Polygon: one part per ring, without repeating the first vertex.
//     Exterior rings have a positive SignedArea, interior rings a negative one.
type Geometry struct {
	Type  GeomType
	Parts [][]intgeom.Point

	// commands of a geometry with an unknown type, kept as is
	commands []uint32
}

func NewPoint(pts ...intgeom.Point) Geometry {
	parts := make([][]intgeom.Point, len(pts))
	for i, pt := range pts {
		parts[i] = []intgeom.Point{pt}
	}
	return Geometry{Type: GeomPoint, Parts: parts}
}

func NewLineString(paths ...[]intgeom.Point) Geometry {
	return Geometry{Type: GeomLineString, Parts: paths}
}

func NewPolygon(rings ...[]intgeom.Point) Geometry {
	return Geometry{Type: GeomPolygon, Parts: rings}
}

// IsEmpty is true when there is nothing left to draw
func (g Geometry) IsEmpty() bool {
	if g.Type == GeomUnknown {
		return len(g.commands) == 0
	}
	return len(g.Parts) == 0
}

// Extent returns the bounding box over all parts
func (g Geometry) Extent() intgeom.Extent {
	var pts [][2]int64
	for _, part := range g.Parts {
		for _, pt := range part {
			pts = append(pts, pt)
		}
	}
	return intgeom.ExtentOf(pts...)
}

// Polygons groups the rings into polygons: every exterior ring starts a
// new polygon, interior rings belong to the preceding exterior ring.
func (g Geometry) Polygons() [][][]intgeom.Point {
	if g.Type != GeomPolygon {
		return nil
	}
	var polygons [][][]intgeom.Point
	for _, ring := range g.Parts {
		if len(polygons) == 0 || intgeom.SignedArea(ring) > 0 {
			polygons = append(polygons, [][]intgeom.Point{ring})
			continue
		}
		last := len(polygons) - 1
		polygons[last] = append(polygons[last], ring)
	}
	return polygons
}

// ToGeom converts to go-spatial floating point geometries, e.g. for a renderer.
// A geometry of unknown type results in nil.
func (g Geometry) ToGeom() geom.Geometry {
	switch g.Type {
	case GeomPoint:
		if len(g.Parts) == 1 {
			return g.Parts[0][0].ToGeomPoint()
		}
		mp := make(geom.MultiPoint, len(g.Parts))
		for i, part := range g.Parts {
			mp[i] = part[0].ToGeomPoint()
		}
		return mp
	case GeomLineString:
		if len(g.Parts) == 1 {
			return geom.LineString(intgeom.ToGeomPoints(g.Parts[0]))
		}
		mls := make(geom.MultiLineString, len(g.Parts))
		for i, part := range g.Parts {
			mls[i] = intgeom.ToGeomPoints(part)
		}
		return mls
	case GeomPolygon:
		polygons := g.Polygons()
		mp := make(geom.MultiPolygon, len(polygons))
		for i, polygon := range polygons {
			mp[i] = make([][][2]float64, len(polygon))
			for j, ring := range polygon {
				mp[i][j] = intgeom.ToGeomPoints(ring)
			}
		}
		if len(mp) == 1 {
			return geom.Polygon(mp[0])
		}
		return mp
	}
	return nil
}

// String returns the WKT of the geometry
func (g Geometry) String() string {
	gg := g.ToGeom()
	if gg == nil {
		return fmt.Sprintf("UNKNOWN(%d commands)", len(g.commands))
	}
	return wkt.MustEncode(gg)
}

// Truncated returns the WKT of the geometry cut off at width runes, zero means no limit
func (g Geometry) Truncated(width uint) string {
	if width == 0 {
		return g.String()
	}
	return truncate.StringWithTail(g.String(), width, "...")
}

// Clone returns a deep copy
func (g Geometry) Clone() Geometry {
	c := Geometry{Type: g.Type}
	if g.Parts != nil {
		c.Parts = make([][]intgeom.Point, len(g.Parts))
		for i, part := range g.Parts {
			c.Parts[i] = append([]intgeom.Point(nil), part...)
		}
	}
	if g.commands != nil {
		c.commands = append([]uint32(nil), g.commands...)
	}
	return c
}
