package mvt

import (
	"github.com/pdok/vtcomposite/intgeom"
	"github.com/pdok/vtcomposite/mapslicehelp"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"google.golang.org/protobuf/encoding/protowire"
)

// Encode serializes layers in order. No layers result in a zero length buffer.
// Coordinates must lie within [-MaxCoordinate, MaxCoordinate].
func Encode(layers []Layer) []byte {
	var b []byte
	for i := range layers {
		b = AppendLayer(b, layers[i])
	}
	return b
}

// AppendLayer appends the layer as a tile field to b
func AppendLayer(b []byte, layer Layer) []byte {
	return AppendRawLayer(b, encodeLayer(layer))
}

// AppendRawLayer appends an already encoded layer message as a tile field to b
func AppendRawLayer(b []byte, raw []byte) []byte {
	b = protowire.AppendTag(b, tileLayers, protowire.BytesType)
	return protowire.AppendBytes(b, raw)
}

func encodeLayer(layer Layer) []byte {
	version := layer.Version
	if version == 0 {
		version = DefaultVersion
	}
	extent := layer.Extent
	if extent == 0 {
		extent = DefaultExtent
	}

	var b []byte
	b = protowire.AppendTag(b, layerVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(version))
	b = protowire.AppendTag(b, layerName, protowire.BytesType)
	b = protowire.AppendString(b, layer.Name)

	// key and value tables in order of first use
	keys := orderedmap.New[string, uint32]()
	values := orderedmap.New[Value, uint32]()

	var tags, commands []uint32
	for _, f := range layer.Features {
		tags = tags[:0]
		if f.Properties != nil {
			for p := f.Properties.Oldest(); p != nil; p = p.Next() {
				tags = append(tags, tableIndex(keys, p.Key), tableIndex(values, p.Value))
			}
		}
		commands = encodeGeometry(commands[:0], f.Geometry)

		var fb []byte
		if f.ID != nil {
			fb = protowire.AppendTag(fb, featureID, protowire.VarintType)
			fb = protowire.AppendVarint(fb, *f.ID)
		}
		if len(tags) > 0 {
			fb = appendPacked(fb, featureTags, tags)
		}
		fb = protowire.AppendTag(fb, featureType, protowire.VarintType)
		fb = protowire.AppendVarint(fb, uint64(f.Geometry.Type))
		fb = appendPacked(fb, featureGeometry, commands)

		b = protowire.AppendTag(b, layerFeatures, protowire.BytesType)
		b = protowire.AppendBytes(b, fb)
	}

	for _, k := range mapslicehelp.OrderedMapKeys(keys) {
		b = protowire.AppendTag(b, layerKeys, protowire.BytesType)
		b = protowire.AppendString(b, k)
	}
	for _, v := range mapslicehelp.OrderedMapKeys(values) {
		b = protowire.AppendTag(b, layerValues, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeValue(v))
	}

	b = protowire.AppendTag(b, layerExtent, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(extent))
}

func tableIndex[K comparable](table *orderedmap.OrderedMap[K, uint32], k K) uint32 {
	if i, ok := table.Get(k); ok {
		return i
	}
	i := uint32(table.Len())
	table.Set(k, i)
	return i
}

func appendPacked(b []byte, num protowire.Number, vs []uint32) []byte {
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, uint64(v))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

func encodeValue(v Value) []byte {
	var b []byte
	switch v.kind {
	case KindString:
		b = protowire.AppendTag(b, valueString, protowire.BytesType)
		b = protowire.AppendString(b, v.str)
	case KindFloat:
		b = protowire.AppendTag(b, valueFloat, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, uint32(v.bits))
	case KindDouble:
		b = protowire.AppendTag(b, valueDouble, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, v.bits)
	case KindInt:
		b = protowire.AppendTag(b, valueInt, protowire.VarintType)
		b = protowire.AppendVarint(b, v.bits)
	case KindUint:
		b = protowire.AppendTag(b, valueUint, protowire.VarintType)
		b = protowire.AppendVarint(b, v.bits)
	case KindSint:
		b = protowire.AppendTag(b, valueSint, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v.bits)))
	case KindBool:
		b = protowire.AppendTag(b, valueBool, protowire.VarintType)
		b = protowire.AppendVarint(b, v.bits)
	default:
		// a zero Value is written as an empty string
		b = protowire.AppendTag(b, valueString, protowire.BytesType)
		b = protowire.AppendString(b, "")
	}
	return b
}

// encodeGeometry writes the command stream with deltas relative to the previous point
func encodeGeometry(dst []uint32, g Geometry) []uint32 {
	if g.Type == GeomUnknown {
		return append(dst, g.commands...)
	}
	var cursor intgeom.Point
	param := func(pt intgeom.Point) {
		dst = append(dst, zigzag(pt[0]-cursor[0]), zigzag(pt[1]-cursor[1]))
		cursor = pt
	}
	if g.Type == GeomPoint {
		if len(g.Parts) == 0 {
			return dst
		}
		dst = append(dst, command(cmdMoveTo, len(g.Parts)))
		for _, part := range g.Parts {
			param(part[0])
		}
		return dst
	}
	for _, part := range g.Parts {
		if len(part) == 0 {
			continue
		}
		dst = append(dst, command(cmdMoveTo, 1))
		param(part[0])
		if len(part) > 1 {
			dst = append(dst, command(cmdLineTo, len(part)-1))
			for _, pt := range part[1:] {
				param(pt)
			}
		}
		if g.Type == GeomPolygon {
			dst = append(dst, command(cmdClosePath, 1))
		}
	}
	return dst
}
