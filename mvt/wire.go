package mvt

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

var errUnexpectedWireType = errors.New("unexpected wire type")

// field numbers of the vector tile messages
const (
	tileLayers protowire.Number = 3

	layerVersion  protowire.Number = 15
	layerName     protowire.Number = 1
	layerFeatures protowire.Number = 2
	layerKeys     protowire.Number = 3
	layerValues   protowire.Number = 4
	layerExtent   protowire.Number = 5

	featureID       protowire.Number = 1
	featureTags     protowire.Number = 2
	featureType     protowire.Number = 3
	featureGeometry protowire.Number = 4

	valueString protowire.Number = 1
	valueFloat  protowire.Number = 2
	valueDouble protowire.Number = 3
	valueInt    protowire.Number = 4
	valueUint   protowire.Number = 5
	valueSint   protowire.Number = 6
	valueBool   protowire.Number = 7
)

// geometry commands
const (
	cmdMoveTo    uint32 = 1
	cmdLineTo    uint32 = 2
	cmdClosePath uint32 = 7
)

func command(id uint32, count int) uint32 {
	return id&0x7 | uint32(count)<<3
}

func splitCommand(c uint32) (id uint32, count int) {
	return c & 0x7, int(c >> 3)
}

func zigzag(n int64) uint32 {
	return uint32(int32(n)<<1) ^ uint32(int32(n)>>31)
}

func unzigzag(v uint32) int64 {
	return int64(int32(v>>1) ^ -int32(v&1))
}

// eachField calls fn for every field in the message b. fn returns the number
// of bytes it consumed, or zero to skip the field.
func eachField(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
		}
		b = b[m:]
	}
	return nil
}

func expectType(num protowire.Number, got, want protowire.Type) error {
	if got != want {
		return fmt.Errorf("%w %d for field %d", errUnexpectedWireType, got, num)
	}
	return nil
}

func consumeVarint(num protowire.Number, typ protowire.Type, b []byte) (uint64, int, error) {
	if err := expectType(num, typ, protowire.VarintType); err != nil {
		return 0, 0, err
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeBytes(num protowire.Number, typ protowire.Type, b []byte) ([]byte, int, error) {
	if err := expectType(num, typ, protowire.BytesType); err != nil {
		return nil, 0, err
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

// consumePacked reads a repeated uint32 field, packed or not
func consumePacked(dst []uint32, num protowire.Number, typ protowire.Type, b []byte) ([]uint32, int, error) {
	if typ == protowire.VarintType {
		v, n, err := consumeVarint(num, typ, b)
		return append(dst, uint32(v)), n, err
	}
	buf, n, err := consumeBytes(num, typ, b)
	if err != nil {
		return dst, 0, err
	}
	for len(buf) > 0 {
		v, m := protowire.ConsumeVarint(buf)
		if m < 0 {
			return dst, 0, protowire.ParseError(m)
		}
		dst = append(dst, uint32(v))
		buf = buf[m:]
	}
	return dst, n, nil
}
