// Package tilematrix addresses tiles in the quad-tree tile matrix (z/x/y)
// and computes the integer transforms that move geometry from one tile's
// local coordinate space into another's.
package tilematrix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdok/vtcomposite/mathhelp"
)

// MaxZoom is the deepest zoom level a Coordinate can address
const MaxZoom = 30

// Coordinate identifies a tile's position in the quad-tree tiling scheme.
// Invariant: 0 <= X, Y < 2^Z
type Coordinate struct {
	Z uint `json:"z"`
	X uint `json:"x"`
	Y uint `json:"y"`
}

func NewCoordinate(z, x, y uint) (Coordinate, error) {
	c := Coordinate{Z: z, X: x, Y: y}
	return c, c.Validate()
}

// MustCoordinate is NewCoordinate that panics on an invalid coordinate
func MustCoordinate(z, x, y uint) Coordinate {
	c, err := NewCoordinate(z, x, y)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCoordinate parses "z/x/y"
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf(`tile coordinate should look like "z/x/y", got %q`, s)
	}
	var zxy [3]uint
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Coordinate{}, fmt.Errorf(`could not parse tile coordinate %q: %w`, s, err)
		}
		zxy[i] = uint(v)
	}
	return NewCoordinate(zxy[0], zxy[1], zxy[2])
}

func (c Coordinate) Validate() error {
	if c.Z > MaxZoom {
		return fmt.Errorf("invalid zoom level %d: must be between 0 and %d", c.Z, MaxZoom)
	}
	size := MatrixSize(c.Z)
	if c.X >= size || c.Y >= size {
		return fmt.Errorf("invalid tile %v: x and y must be below %d at zoom %d", c, size, c.Z)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Z, c.X, c.Y)
}

// MatrixSize is the number of tiles in width (and height) at the given zoom
func MatrixSize(zoom uint) uint {
	return mathhelp.Pow2(zoom)
}

// ZoomDelta is dest.Z - src.Z.
// Positive means dest is an overzoomed part of src,
// negative means dest is a mosaic covering multiple src tiles.
func ZoomDelta(dest, src Coordinate) int {
	return int(dest.Z) - int(src.Z)
}

// Parent returns the tile at zoom z that contains c. z must not be deeper than c.Z.
func (c Coordinate) Parent(z uint) Coordinate {
	shift := c.Z - z
	return Coordinate{Z: z, X: c.X >> shift, Y: c.Y >> shift}
}

// Contains reports whether the area of o lies within the area of c
func (c Coordinate) Contains(o Coordinate) bool {
	if o.Z < c.Z {
		return false
	}
	return o.Parent(c.Z) == c
}
