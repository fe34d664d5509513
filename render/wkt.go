package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdok/vtcomposite/mvt"
	"github.com/pdok/vtcomposite/tilematrix"
)

// WKTRenderer writes one line per feature: the layer name, the style and the
// geometry as WKT, truncated at Width runes when Width is set.
type WKTRenderer struct {
	Width uint
}

func (r WKTRenderer) Render(ctx context.Context, _ tilematrix.Coordinate, layers []StyledLayer[string]) ([]byte, error) {
	var buf bytes.Buffer
	for _, l := range layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, f := range l.Layer.Features {
			if f.Geometry.Type == mvt.GeomUnknown {
				continue
			}
			fmt.Fprintf(&buf, "%s\t%s\t%s\n", l.Layer.Name, l.Style, f.Geometry.Truncated(r.Width))
		}
	}
	return buf.Bytes(), nil
}
