// Package composite merges source vector tiles into one destination tile,
// moving every layer into the destination's local coordinate space and
// clipping it to the destination's (buffered) extent.
package composite

import (
	"context"

	"github.com/pdok/vtcomposite/intgeom"
	"github.com/pdok/vtcomposite/mvt"
	"github.com/pdok/vtcomposite/tilematrix"
	"github.com/pdok/vtcomposite/vectortile"
	log "github.com/sirupsen/logrus"
)

const debugWKTWidth = 120

// wireLimit is the largest clip extent the encoding can represent
var wireLimit = intgeom.Extent{-mvt.MaxCoordinate, -mvt.MaxCoordinate, mvt.MaxCoordinate, mvt.MaxCoordinate}

// Composite encodes the layers of all sources, in order, as seen from dest.
//
// Sources that are not parsed yet are parsed in place, nothing else about
// them changes. Layer names are not deduplicated. Features without geometry
// after clipping are dropped, and so are layers without features. When
// nothing remains the result is the zero length buffer.
// Zero fields of opts take their defaults, see NewOptions.
func Composite(dest tilematrix.Coordinate, sources []*vectortile.VectorTile, opts Options) ([]byte, error) {
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if err = opts.Validate(); err != nil {
		return nil, err
	}
	ctx := context.Background()
	var out []byte
	for i, src := range sources {
		if !src.State().HasParsed() {
			if err := src.Parse(); err != nil {
				return nil, &SourceTileError{Index: i, Coordinate: src.Coordinate(), Err: err}
			}
		}
		layers, err := src.ToStructured()
		if err != nil {
			return nil, &SourceTileError{Index: i, Coordinate: src.Coordinate(), Err: err}
		}
		for _, layer := range layers {
			out, err = appendLayer(ctx, out, src.Coordinate(), dest, layer, opts)
			if err != nil {
				return nil, &SourceTileError{Index: i, Coordinate: src.Coordinate(), Err: err}
			}
		}
	}
	return out, nil
}

// Into composites the sources and attaches the result to dest as raw bytes
func Into(dest *vectortile.VectorTile, sources []*vectortile.VectorTile, opts Options) error {
	out, err := Composite(dest.Coordinate(), sources, opts)
	if err != nil {
		return err
	}
	dest.AttachRaw(out)
	return nil
}

func appendLayer(ctx context.Context, out []byte, src, dest tilematrix.Coordinate, layer mvt.Layer, opts Options) ([]byte, error) {
	transform := tilematrix.TransformFor(src, dest, layer.Extent)
	if transform.IsIdentity() && !opts.clipping() && reusable(layer) {
		log.Debugf("%s %q: reusing %d features", src, layer.Name, len(layer.Features))
		return mvt.AppendRawLayer(out, layer.Raw()), nil
	}

	p := geometryProcessor{
		transform: transform,
		clip:      intgeom.TileExtent(layer.Extent, opts.Buffer(layer.Extent)).Intersection(wireLimit),
		threshold: opts.AreaThreshold,
		tolerance: opts.SimplifyDistance,
	}
	if p.clip.IsEmpty() {
		log.Debugf("%s %q: dropped, empty clip extent %v", src, layer.Name, p.clip)
		return out, nil
	}

	kept := make([]mvt.Feature, 0, len(layer.Features))
	for i, f := range layer.Features {
		if f.Geometry.Type == mvt.GeomUnknown {
			log.Debugf("%s %q: dropped feature %d of unknown type", src, layer.Name, i)
			continue
		}
		if !f.Geometry.IsEmpty() && !p.clip.Intersects(transform.ApplyExtent(f.Geometry.Extent())) {
			log.Tracef("%s %q: feature %d lies outside %v", src, layer.Name, i, p.clip)
			continue
		}
		g, err := p.process(ctx, f.Geometry)
		if err != nil {
			return nil, err
		}
		if g.IsEmpty() {
			if log.IsLevelEnabled(log.TraceLevel) {
				log.Tracef("%s %q: dropped feature %d: %s", src, layer.Name, i, f.Geometry.Truncated(debugWKTWidth))
			}
			continue
		}
		kept = append(kept, mvt.Feature{ID: f.ID, Geometry: g, Properties: f.Properties})
	}
	log.Debugf("%s %q: kept %d of %d features", src, layer.Name, len(kept), len(layer.Features))
	if len(kept) == 0 {
		return out, nil
	}
	return mvt.AppendLayer(out, mvt.Layer{
		Name:     layer.Name,
		Version:  layer.Version,
		Extent:   layer.Extent,
		Features: kept,
	}), nil
}

// reusable is true for decoded layers of which every feature has a known, non-empty geometry
func reusable(layer mvt.Layer) bool {
	if layer.Raw() == nil || len(layer.Features) == 0 {
		return false
	}
	for _, f := range layer.Features {
		if f.Geometry.Type == mvt.GeomUnknown || f.Geometry.IsEmpty() {
			return false
		}
	}
	return true
}
