package processing

import (
	"context"
	"errors"

	"github.com/pdok/vtcomposite/tilematrix"
)

// ErrTileNotFound is returned by a Source that has no tile at a coordinate
var ErrTileNotFound = errors.New("tile not found")

// Source reads encoded tiles
type Source interface {
	ReadTile(ctx context.Context, c tilematrix.Coordinate) ([]byte, error)
}

// Target writes encoded tiles
type Target interface {
	WriteTile(ctx context.Context, c tilematrix.Coordinate, raw []byte) error
}
