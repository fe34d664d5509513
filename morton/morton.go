// Package morton maps tile columns and rows onto a Z-order curve, so that
// tiles close to each other get codes close to each other.
package morton

// Code interleaves the bits of a column (even bits) and a row (odd bits)
type Code = uint64

// Encode returns the Z-order code of column x and row y
func Encode(x, y uint32) Code {
	return spread(x) | spread(y)<<1
}

// Decode is the inverse of Encode
func Decode(c Code) (x, y uint32) {
	return compact(c), compact(c >> 1)
}

// spread moves bit i of v to bit 2i
func spread(v uint32) uint64 {
	z := uint64(v)
	z = (z | z<<16) & 0x0000ffff0000ffff
	z = (z | z<<8) & 0x00ff00ff00ff00ff
	z = (z | z<<4) & 0x0f0f0f0f0f0f0f0f
	z = (z | z<<2) & 0x3333333333333333
	z = (z | z<<1) & 0x5555555555555555
	return z
}

// compact moves bit 2i of z to bit i, dropping the odd bits
func compact(z uint64) uint32 {
	z &= 0x5555555555555555
	z = (z | z>>1) & 0x3333333333333333
	z = (z | z>>2) & 0x0f0f0f0f0f0f0f0f
	z = (z | z>>4) & 0x00ff00ff00ff00ff
	z = (z | z>>8) & 0x0000ffff0000ffff
	z = (z | z>>16) & 0x00000000ffffffff
	return uint32(z)
}
