package mvt

import (
	"fmt"
	"math"
	"strconv"
)

// ValueKind is the kind of a property value as it appears on the wire
type ValueKind uint8

const (
	KindString ValueKind = iota + 1
	KindFloat
	KindDouble
	KindInt
	KindUint
	KindSint
	KindBool
)

// Value is a typed property value. Values are comparable,
// so they can be deduplicated in a layer's value table.
type Value struct {
	kind ValueKind
	str  string
	bits uint64
}

func StringValue(s string) Value    { return Value{kind: KindString, str: s} }
func FloatValue(f float32) Value    { return Value{kind: KindFloat, bits: uint64(math.Float32bits(f))} }
func DoubleValue(f float64) Value   { return Value{kind: KindDouble, bits: math.Float64bits(f)} }
func IntValue(i int64) Value        { return Value{kind: KindInt, bits: uint64(i)} }
func UintValue(u uint64) Value      { return Value{kind: KindUint, bits: u} }
func SintValue(i int64) Value       { return Value{kind: KindSint, bits: uint64(i)} }
func BoolValue(b bool) Value        { return Value{kind: KindBool, bits: uint64(boolBit(b))} }
func (v Value) Kind() ValueKind     { return v.kind }
func (v Value) IsZero() bool        { return v.kind == 0 }
func (v Value) StringValue() string { return v.str }
func (v Value) BoolValue() bool     { return v.bits != 0 }

// Interface returns the Go value: string, float32, float64, int64, uint64 or bool.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindFloat:
		return math.Float32frombits(uint32(v.bits))
	case KindDouble:
		return math.Float64frombits(v.bits)
	case KindInt, KindSint:
		return int64(v.bits)
	case KindUint:
		return v.bits
	case KindBool:
		return v.bits != 0
	}
	return nil
}

func (v Value) String() string {
	switch n := v.Interface().(type) {
	case string:
		return strconv.Quote(n)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprint(n)
	}
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
