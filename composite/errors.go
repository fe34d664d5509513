package composite

import (
	"fmt"

	"github.com/pdok/vtcomposite/tilematrix"
)

// SourceTileError fails a composite when one of its sources cannot be parsed.
// A composite never succeeds partially.
type SourceTileError struct {
	Index      int
	Coordinate tilematrix.Coordinate
	Err        error
}

func (e *SourceTileError) Error() string {
	return fmt.Sprintf("source %d: %v", e.Index, e.Err)
}

func (e *SourceTileError) Unwrap() error {
	return e.Err
}
