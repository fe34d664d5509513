package morton

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		x, y uint32
		want Code
	}{
		{0, 0, 0},
		{1, 0, 1},
		{0, 1, 2},
		{1, 1, 3},
		{2, 0, 4},
		{3, 3, 15},
		{4, 4, 48},
		{math.MaxUint32, 0, 0x5555555555555555},
		{0, math.MaxUint32, 0xaaaaaaaaaaaaaaaa},
		{math.MaxUint32, math.MaxUint32, math.MaxUint64},
	}
	for _, tt := range tests {
		got := Encode(tt.x, tt.y)
		assert.Equalf(t, tt.want, got, "Encode(%d, %d)", tt.x, tt.y)
		x, y := Decode(got)
		assert.Equal(t, tt.x, x)
		assert.Equal(t, tt.y, y)
	}
}

func TestEncode_quadrants(t *testing.T) {
	// all tiles of a quadrant come before the next quadrant
	for y := uint32(0); y < 4; y++ {
		for x := uint32(0); x < 4; x++ {
			quadrant := Encode(x/2, y/2)
			assert.Equal(t, quadrant, Encode(x, y)>>2)
		}
	}
}
