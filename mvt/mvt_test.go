package mvt

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pdok/vtcomposite/intgeom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestGeometryCommands(t *testing.T) {
	tests := []struct {
		name     string
		geometry Geometry
		commands []uint32
	}{
		{
			name:     "point",
			geometry: NewPoint(intgeom.Point{25, 17}),
			commands: []uint32{9, 50, 34},
		},
		{
			name:     "multi point",
			geometry: NewPoint(intgeom.Point{5, 7}, intgeom.Point{3, 2}),
			commands: []uint32{17, 10, 14, 3, 9},
		},
		{
			name:     "line string",
			geometry: NewLineString([]intgeom.Point{{2, 2}, {2, 10}, {10, 10}}),
			commands: []uint32{9, 4, 4, 18, 0, 16, 16, 0},
		},
		{
			name: "multi line string",
			geometry: NewLineString(
				[]intgeom.Point{{2, 2}, {2, 10}, {10, 10}},
				[]intgeom.Point{{1, 1}, {3, 5}},
			),
			commands: []uint32{9, 4, 4, 18, 0, 16, 16, 0, 9, 17, 17, 10, 4, 8},
		},
		{
			name:     "polygon",
			geometry: NewPolygon([]intgeom.Point{{3, 6}, {8, 12}, {20, 34}}),
			commands: []uint32{9, 6, 12, 18, 10, 12, 24, 44, 15},
		},
		{
			name: "polygon with hole",
			geometry: NewPolygon(
				[]intgeom.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
				[]intgeom.Point{{11, 11}, {20, 11}, {20, 20}, {11, 20}},
				[]intgeom.Point{{13, 13}, {13, 17}, {17, 17}, {17, 13}},
			),
			commands: []uint32{
				9, 0, 0, 26, 20, 0, 0, 20, 19, 0, 15,
				9, 22, 2, 26, 18, 0, 0, 18, 17, 0, 15,
				9, 4, 13, 26, 0, 8, 8, 0, 0, 7, 15,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.commands, encodeGeometry(nil, tt.geometry))
			parts, err := decodeGeometry(tt.geometry.Type, tt.commands)
			require.NoError(t, err)
			assert.Equal(t, tt.geometry.Parts, parts)
		})
	}
}

func TestDecodeGeometry_malformed(t *testing.T) {
	tests := []struct {
		name     string
		geomType GeomType
		commands []uint32
	}{
		{name: "truncated", geomType: GeomPoint, commands: []uint32{9, 50}},
		{name: "unknown command", geomType: GeomPoint, commands: []uint32{12, 1, 1}},
		{name: "zero count", geomType: GeomLineString, commands: []uint32{1}},
		{name: "line to before move to", geomType: GeomLineString, commands: []uint32{10, 2, 2}},
		{name: "lone move to", geomType: GeomLineString, commands: []uint32{9, 2, 2}},
		{name: "multi move to in line", geomType: GeomLineString, commands: []uint32{17, 2, 2, 4, 4}},
		{name: "unclosed ring", geomType: GeomPolygon, commands: []uint32{9, 6, 12, 18, 10, 12, 24, 44}},
		{name: "close path in line", geomType: GeomLineString, commands: []uint32{9, 4, 4, 10, 2, 2, 15}},
		{name: "close path count", geomType: GeomPolygon, commands: []uint32{9, 6, 12, 18, 10, 12, 24, 44, 23}},
		{name: "line to in point", geomType: GeomPoint, commands: []uint32{9, 2, 2, 10, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeGeometry(tt.geomType, tt.commands)
			assert.Error(t, err)
		})
	}
}

func testLayer(name string) Layer {
	line := NewFeature(NewLineString([]intgeom.Point{{0, 0}, {4096, 4096}})).WithID(1)
	line.Properties.Set("name", StringValue("diagonal"))
	line.Properties.Set("lanes", IntValue(2))

	other := NewFeature(NewLineString([]intgeom.Point{{0, 4096}, {4096, 0}})).WithID(2)
	other.Properties.Set("name", StringValue("anti diagonal"))
	other.Properties.Set("lanes", IntValue(2))
	other.Properties.Set("oneway", BoolValue(true))

	point := NewFeature(NewPoint(intgeom.Point{2048, 2048}))
	point.Properties.Set("height", DoubleValue(12.5))
	point.Properties.Set("weight", FloatValue(0.25))
	point.Properties.Set("count", UintValue(7))
	point.Properties.Set("delta", SintValue(-3))

	area := NewFeature(NewPolygon([]intgeom.Point{{10, 10}, {100, 10}, {100, 100}, {10, 100}}))
	return NewLayer(name, line, other, point, area)
}

type flatProperty struct {
	Key   string
	Value any
}

func flatten(p *Properties) []flatProperty {
	var out []flatProperty
	for pair := p.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, flatProperty{pair.Key, pair.Value.Interface()})
	}
	return out
}

func TestEncodeDecode(t *testing.T) {
	want := []Layer{testLayer("roads"), testLayer("pois")}
	b := Encode(want)
	require.NotEmpty(t, b)

	got, err := Decode(b)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, DefaultVersion, got[i].Version)
		assert.Equal(t, DefaultExtent, got[i].Extent)
		require.Len(t, got[i].Features, len(want[i].Features))
		for j, f := range want[i].Features {
			g := got[i].Features[j]
			assert.Equal(t, f.ID, g.ID)
			assert.Equal(t, f.Geometry, g.Geometry)
			if diff := cmp.Diff(flatten(f.Properties), flatten(g.Properties)); diff != "" {
				t.Errorf("properties of feature %d mismatch (-want +got):\n%s", j, diff)
			}
		}
		assert.NotEmpty(t, got[i].Raw())
	}

	// re-encoding the decoded layers is stable
	assert.Equal(t, b, Encode(got))
}

func TestEncode_noLayers(t *testing.T) {
	assert.Empty(t, Encode(nil))
}

func countFields(t *testing.T, raw []byte, want protowire.Number) int {
	t.Helper()
	count := 0
	require.NoError(t, eachField(raw, func(num protowire.Number, _ protowire.Type, _ []byte) (int, error) {
		if num == want {
			count++
		}
		return 0, nil
	}))
	return count
}

func TestEncode_sharedTables(t *testing.T) {
	layers, err := Decode(Encode([]Layer{testLayer("roads")}))
	require.NoError(t, err)
	raw := layers[0].Raw()
	// name, lanes, oneway, height, weight, count, delta
	assert.Equal(t, 7, countFields(t, raw, layerKeys))
	// "diagonal", 2, "anti diagonal", true, 12.5, 0.25, 7, -3
	assert.Equal(t, 8, countFields(t, raw, layerValues))
	assert.Equal(t, 4, countFields(t, raw, layerFeatures))
}

func TestDecode_emptyBuffer(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyBuffer)
	assert.EqualError(t, err, "cannot parse 0 length buffer as protobuf")

	_, err = Decode([]byte{})
	assert.ErrorIs(t, err, ErrEmptyBuffer)
}

func layerMessage(fields ...[]byte) []byte {
	var b []byte
	for _, f := range fields {
		b = append(b, f...)
	}
	return AppendRawLayer(nil, b)
}

func nameField(name string) []byte {
	b := protowire.AppendTag(nil, layerName, protowire.BytesType)
	return protowire.AppendString(b, name)
}

func featureField(fields ...[]byte) []byte {
	var f []byte
	for _, field := range fields {
		f = append(f, field...)
	}
	b := protowire.AppendTag(nil, layerFeatures, protowire.BytesType)
	return protowire.AppendBytes(b, f)
}

func packedField(num protowire.Number, vs ...uint32) []byte {
	return appendPacked(nil, num, vs)
}

func varintField(num protowire.Number, v uint64) []byte {
	b := protowire.AppendTag(nil, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func TestDecode_malformed(t *testing.T) {
	pointType := varintField(featureType, uint64(GeomPoint))
	tests := []struct {
		name    string
		input   []byte
		layer   int
		feature int
	}{
		{name: "garbage", input: []byte{0xff, 0xff, 0xff}, layer: -1, feature: -1},
		{name: "truncated layer", input: []byte{0x1a, 0x05, 0x0a}, layer: 0, feature: -1},
		{name: "layer as varint", input: varintField(tileLayers, 3), layer: 0, feature: -1},
		{name: "no name", input: layerMessage(varintField(layerExtent, 4096)), layer: 0, feature: -1},
		{name: "zero extent", input: layerMessage(nameField("a"), varintField(layerExtent, 0)), layer: 0, feature: -1},
		{
			name:  "odd tags",
			input: layerMessage(nameField("a"), featureField(packedField(featureTags, 0), pointType)),
			layer: 0, feature: 0,
		},
		{
			name:  "key out of range",
			input: layerMessage(nameField("a"), featureField(packedField(featureTags, 0, 0), pointType)),
			layer: 0, feature: 0,
		},
		{
			name:  "bad geometry",
			input: layerMessage(nameField("a"), featureField(pointType, packedField(featureGeometry, 9, 50))),
			layer: 0, feature: 0,
		},
		{
			name:  "unknown geometry type",
			input: layerMessage(nameField("a"), featureField(varintField(featureType, 9))),
			layer: 0, feature: 0,
		},
		{
			name: "second layer",
			input: append(
				layerMessage(nameField("a")),
				layerMessage(nameField("b"), featureField(pointType), featureField(pointType, packedField(featureGeometry, 3)))...,
			),
			layer: 1, feature: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.layer, decodeErr.Layer)
			assert.Equal(t, tt.feature, decodeErr.Feature)
		})
	}
}

func TestDecode_defaults(t *testing.T) {
	// unknown fields are skipped, version and extent have protobuf defaults
	b := append(varintField(7, 42), layerMessage(nameField("water"))...)
	layers, err := Decode(b)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, "water", layers[0].Name)
	assert.Equal(t, uint32(1), layers[0].Version)
	assert.Equal(t, DefaultExtent, layers[0].Extent)
	assert.Empty(t, layers[0].Features)
}

func TestDecode_unknownGeometryType(t *testing.T) {
	b := layerMessage(nameField("a"), featureField(packedField(featureGeometry, 9, 50, 34)))
	layers, err := Decode(b)
	require.NoError(t, err)
	g := layers[0].Features[0].Geometry
	assert.Equal(t, GeomUnknown, g.Type)
	assert.Nil(t, g.Parts)
	assert.False(t, g.IsEmpty())
	assert.Nil(t, g.ToGeom())

	again, err := Decode(Encode(layers))
	require.NoError(t, err)
	assert.Equal(t, g, again[0].Features[0].Geometry)
}

func TestDecode_unpackedRepeatedFields(t *testing.T) {
	var feature [][]byte
	feature = append(feature, varintField(featureType, uint64(GeomPoint)))
	for _, v := range []uint64{9, 50, 34} {
		feature = append(feature, varintField(featureGeometry, v))
	}
	layers, err := Decode(layerMessage(nameField("a"), featureField(feature...)))
	require.NoError(t, err)
	assert.Equal(t, NewPoint(intgeom.Point{25, 17}), layers[0].Features[0].Geometry)
}

func TestLayerNames(t *testing.T) {
	tests := []struct {
		name   string
		layers []Layer
		want   []string
	}{
		{name: "none", layers: nil, want: []string{}},
		{name: "single", layers: []Layer{testLayer("roads")}, want: []string{"roads"}},
		{
			name:   "duplicates in order",
			layers: []Layer{testLayer("roads"), testLayer("pois"), testLayer("roads")},
			want:   []string{"roads", "pois", "roads"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Encode(tt.layers)
			got, err := LayerNames(b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if len(b) > 0 {
				decoded, err := Decode(b)
				require.NoError(t, err)
				assert.Equal(t, got, Names(decoded))
			}
		})
	}
}

func TestLayerNames_malformed(t *testing.T) {
	_, err := LayerNames([]byte{0xff, 0xff, 0xff})
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = LayerNames(layerMessage(varintField(layerExtent, 4096)))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestGeometry_Polygons(t *testing.T) {
	g := NewPolygon(
		[]intgeom.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		[]intgeom.Point{{2, 2}, {2, 8}, {8, 8}, {8, 2}},
		[]intgeom.Point{{20, 0}, {30, 0}, {30, 10}, {20, 10}},
	)
	polygons := g.Polygons()
	require.Len(t, polygons, 2)
	assert.Len(t, polygons[0], 2)
	assert.Len(t, polygons[1], 1)
	assert.Contains(t, g.String(), "MULTIPOLYGON")
	assert.Contains(t, NewPoint(intgeom.Point{1, 2}).String(), "POINT")
}

func TestFeature_Clone(t *testing.T) {
	f := testLayer("roads").Features[0]
	c := f.Clone()
	c.Properties.Set("name", StringValue("changed"))
	c.Geometry.Parts[0][0] = intgeom.Point{9, 9}
	*c.ID = 99

	v, _ := f.Properties.Get("name")
	assert.Equal(t, "diagonal", v.StringValue())
	assert.Equal(t, intgeom.Point{0, 0}, f.Geometry.Parts[0][0])
	assert.Equal(t, uint64(1), *f.ID)
}
