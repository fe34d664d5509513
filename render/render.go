// Package render is the boundary with renderers. A renderer gets a snapshot
// of parsed layers, each paired with the style that applies to its name.
// Layers without a style are not handed over.
package render

import (
	"context"
	"fmt"

	"github.com/pdok/vtcomposite/mvt"
	"github.com/pdok/vtcomposite/processing"
	"github.com/pdok/vtcomposite/tilematrix"
	"github.com/pdok/vtcomposite/vectortile"
)

// StyleSet maps layer names to styles. What a style is, is up to the renderer.
type StyleSet[S any] map[string]S

type StyledLayer[S any] struct {
	Layer mvt.Layer
	Style S
}

// Renderer draws styled layers. It must not modify them and may be called concurrently.
type Renderer[S any] interface {
	Render(ctx context.Context, c tilematrix.Coordinate, layers []StyledLayer[S]) ([]byte, error)
}

// Match pairs every layer that has a style with that style. Order and
// duplicate names are kept, so all layers with the same name are drawn.
func Match[S any](layers []mvt.Layer, styles StyleSet[S]) []StyledLayer[S] {
	var matched []StyledLayer[S]
	for _, l := range layers {
		if s, ok := styles[l.Name]; ok {
			matched = append(matched, StyledLayer[S]{Layer: l, Style: s})
		}
	}
	return matched
}

// RenderAsync parses vt if needed and renders a snapshot of its layers on
// another goroutine. vt can be used again as soon as RenderAsync returns.
func RenderAsync[S any](ctx context.Context, r Renderer[S], vt *vectortile.VectorTile, styles StyleSet[S]) *processing.Task[[]byte] {
	if !vt.State().HasParsed() {
		if err := vt.Parse(); err != nil {
			return failed[[]byte](err)
		}
	}
	layers, err := vt.ToStructured()
	if err != nil {
		return failed[[]byte](err)
	}
	snapshot := make([]mvt.Layer, len(layers))
	for i, l := range layers {
		snapshot[i] = l.Clone()
	}
	c := vt.Coordinate()
	return processing.Go(func() ([]byte, error) {
		out, err := r.Render(ctx, c, Match(snapshot, styles))
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", c, err)
		}
		return out, nil
	})
}

func failed[T any](err error) *processing.Task[T] {
	return processing.Go(func() (T, error) {
		var zero T
		return zero, err
	})
}
