package mvt

import (
	"errors"
	"fmt"
	"math"

	"github.com/pdok/vtcomposite/intgeom"
	"github.com/pdok/vtcomposite/mapslicehelp"
	"google.golang.org/protobuf/encoding/protowire"
)

// Decode parses an encoded vector tile into its layers, in wire order.
// A zero length buffer results in ErrEmptyBuffer, any other defect in a *DecodeError.
func Decode(b []byte) ([]Layer, error) {
	if len(b) == 0 {
		return nil, ErrEmptyBuffer
	}
	var layers []Layer
	err := eachField(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != tileLayers {
			return 0, nil
		}
		raw, n, err := consumeBytes(num, typ, b)
		if err != nil {
			return 0, malformed(len(layers), -1, "invalid layer field", err)
		}
		layer, err := decodeLayer(len(layers), raw)
		if err != nil {
			return 0, err
		}
		layers = append(layers, layer)
		return n, nil
	})
	if err != nil {
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			err = malformed(-1, -1, "invalid tile", err)
		}
		return nil, err
	}
	return layers, nil
}

func decodeLayer(index int, raw []byte) (Layer, error) {
	layer := Layer{Version: 1, Extent: DefaultExtent, raw: raw}
	var (
		hasName  bool
		keys     []string
		values   []Value
		features [][]byte
	)
	err := eachField(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case layerVersion:
			v, n, err := consumeVarint(num, typ, b)
			layer.Version = uint32(v)
			return n, err
		case layerName:
			v, n, err := consumeBytes(num, typ, b)
			layer.Name, hasName = string(v), true
			return n, err
		case layerExtent:
			v, n, err := consumeVarint(num, typ, b)
			layer.Extent = uint32(v)
			return n, err
		case layerKeys:
			v, n, err := consumeBytes(num, typ, b)
			keys = append(keys, string(v))
			return n, err
		case layerValues:
			v, n, err := consumeBytes(num, typ, b)
			if err != nil {
				return 0, err
			}
			value, err := decodeValue(v)
			if err != nil {
				return 0, fmt.Errorf("value %d: %w", len(values), err)
			}
			values = append(values, value)
			return n, nil
		case layerFeatures:
			v, n, err := consumeBytes(num, typ, b)
			features = append(features, v)
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return Layer{}, malformed(index, -1, "invalid layer", err)
	}
	if !hasName {
		return Layer{}, malformed(index, -1, "layer has no name", nil)
	}
	if layer.Extent == 0 {
		return Layer{}, malformed(index, -1, "layer has zero extent", nil)
	}
	layer.Features = make([]Feature, 0, len(features))
	for i, raw := range features {
		f, err := decodeFeature(raw, keys, values)
		if err != nil {
			return Layer{}, malformed(index, i, "invalid feature", err)
		}
		layer.Features = append(layer.Features, f)
	}
	return layer, nil
}

func decodeFeature(raw []byte, keys []string, values []Value) (Feature, error) {
	var (
		f        = NewFeature(Geometry{})
		tags     []uint32
		commands []uint32
	)
	err := eachField(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		var (
			n   int
			err error
		)
		switch num {
		case featureID:
			var id uint64
			id, n, err = consumeVarint(num, typ, b)
			f.ID = &id
		case featureType:
			var t uint64
			t, n, err = consumeVarint(num, typ, b)
			if err == nil && t > uint64(GeomPolygon) {
				err = fmt.Errorf("unknown geometry type %d", t)
			}
			f.Geometry.Type = GeomType(t)
		case featureTags:
			tags, n, err = consumePacked(tags, num, typ, b)
		case featureGeometry:
			commands, n, err = consumePacked(commands, num, typ, b)
		}
		return n, err
	})
	if err != nil {
		return Feature{}, err
	}
	if len(tags)%2 != 0 {
		return Feature{}, fmt.Errorf("odd number of tags: %d", len(tags))
	}
	for i := 0; i < len(tags); i += 2 {
		k, v := tags[i], tags[i+1]
		if int(k) >= len(keys) {
			return Feature{}, fmt.Errorf("key index %d out of range", k)
		}
		if int(v) >= len(values) {
			return Feature{}, fmt.Errorf("value index %d out of range", v)
		}
		f.Properties.Set(keys[k], values[v])
	}
	if f.Geometry.Type == GeomUnknown {
		f.Geometry.commands = commands
		return f, nil
	}
	f.Geometry.Parts, err = decodeGeometry(f.Geometry.Type, commands)
	if err != nil {
		return Feature{}, err
	}
	return f, nil
}

func decodeValue(raw []byte) (Value, error) {
	var value Value
	err := eachField(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case valueString:
			v, n, err := consumeBytes(num, typ, b)
			value = StringValue(string(v))
			return n, err
		case valueFloat:
			if err := expectType(num, typ, protowire.Fixed32Type); err != nil {
				return 0, err
			}
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			value = FloatValue(math.Float32frombits(v))
			return n, nil
		case valueDouble:
			if err := expectType(num, typ, protowire.Fixed64Type); err != nil {
				return 0, err
			}
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			value = DoubleValue(math.Float64frombits(v))
			return n, nil
		case valueInt:
			v, n, err := consumeVarint(num, typ, b)
			value = IntValue(int64(v))
			return n, err
		case valueUint:
			v, n, err := consumeVarint(num, typ, b)
			value = UintValue(v)
			return n, err
		case valueSint:
			v, n, err := consumeVarint(num, typ, b)
			value = SintValue(protowire.DecodeZigZag(v))
			return n, err
		case valueBool:
			v, n, err := consumeVarint(num, typ, b)
			value = BoolValue(protowire.DecodeBool(v))
			return n, err
		}
		return 0, nil
	})
	if err != nil {
		return Value{}, err
	}
	if value.IsZero() {
		return Value{}, fmt.Errorf("value without content")
	}
	return value, nil
}

// decodeGeometry runs the command stream, accumulating the zigzag encoded
// deltas into absolute tile-local coordinates.
func decodeGeometry(t GeomType, commands []uint32) ([][]intgeom.Point, error) {
	var (
		parts  [][]intgeom.Point
		cursor intgeom.Point
		closed = true
	)
	for i := 0; i < len(commands); {
		id, count := splitCommand(commands[i])
		i++
		switch id {
		case cmdMoveTo, cmdLineTo:
			if count == 0 {
				return nil, fmt.Errorf("command %d with zero count", id)
			}
			if i+2*count > len(commands) {
				return nil, fmt.Errorf("geometry truncated, expected %d parameters", 2*count)
			}
		case cmdClosePath:
			if count != 1 {
				return nil, fmt.Errorf("close path with count %d", count)
			}
		default:
			return nil, fmt.Errorf("unknown command %d", id)
		}

		switch {
		case id == cmdMoveTo && t == GeomPoint:
			for ; count > 0; count-- {
				cursor = advance(cursor, commands[i:])
				i += 2
				parts = append(parts, []intgeom.Point{cursor})
			}
		case id == cmdMoveTo:
			if count != 1 {
				return nil, fmt.Errorf("move to with count %d for %s", count, t)
			}
			if err := checkPart(t, parts, closed); err != nil {
				return nil, err
			}
			cursor = advance(cursor, commands[i:])
			i += 2
			parts = append(parts, []intgeom.Point{cursor})
			closed = false
		case id == cmdLineTo && t != GeomPoint && len(parts) > 0 && !closed:
			last := mapslicehelp.LastElement(parts)
			for ; count > 0; count-- {
				cursor = advance(cursor, commands[i:])
				i += 2
				*last = append(*last, cursor)
			}
		case id == cmdClosePath && t == GeomPolygon && len(parts) > 0 && !closed:
			closed = true
		default:
			return nil, fmt.Errorf("unexpected command %d for %s", id, t)
		}
	}
	if t != GeomPoint {
		if err := checkPart(t, parts, closed); err != nil {
			return nil, err
		}
	}
	return parts, nil
}

// checkPart validates the part that was last started
func checkPart(t GeomType, parts [][]intgeom.Point, closed bool) error {
	if len(parts) == 0 {
		return nil
	}
	last := *mapslicehelp.LastElement(parts)
	switch t {
	case GeomLineString:
		if len(last) < 2 {
			return fmt.Errorf("line string %d without line to", len(parts)-1)
		}
	case GeomPolygon:
		if !closed {
			return fmt.Errorf("ring %d is not closed", len(parts)-1)
		}
	}
	return nil
}

func advance(cursor intgeom.Point, params []uint32) intgeom.Point {
	return intgeom.Point{cursor[0] + unzigzag(params[0]), cursor[1] + unzigzag(params[1])}
}
