package vectortile

import (
	"testing"

	"github.com/pdok/vtcomposite/intgeom"
	"github.com/pdok/vtcomposite/mvt"
	"github.com/pdok/vtcomposite/tilematrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayers() []mvt.Layer {
	road := mvt.NewFeature(mvt.NewLineString([]intgeom.Point{{0, 0}, {4096, 4096}}))
	road.Properties.Set("name", mvt.StringValue("main street"))
	poi := mvt.NewFeature(mvt.NewPoint(intgeom.Point{100, 200}))
	return []mvt.Layer{
		mvt.NewLayer("lines", road),
		mvt.NewLayer("points", poi),
	}
}

func TestLifecycle(t *testing.T) {
	c := tilematrix.MustCoordinate(1, 0, 1)
	vt := New(c)
	assert.Equal(t, Empty, vt.State())
	assert.True(t, vt.Empty())
	assert.Equal(t, c, vt.Coordinate())

	_, err := vt.RawBytes()
	assert.ErrorIs(t, err, ErrNoRawData)
	_, err = vt.RawLayerNames()
	assert.ErrorIs(t, err, ErrNoRawData)
	_, err = vt.ToStructured()
	assert.ErrorIs(t, err, ErrNotParsed)
	assert.ErrorIs(t, vt.Parse(), ErrNoRawData)

	raw := mvt.Encode(testLayers())
	vt.AttachRaw(raw)
	assert.Equal(t, RawOnly, vt.State())
	assert.False(t, vt.Empty())
	assert.Equal(t, len(raw), vt.Size())

	names, err := vt.RawLayerNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"lines", "points"}, names)
	_, err = vt.ToStructured()
	assert.ErrorIs(t, err, ErrNotParsed)

	require.NoError(t, vt.Parse())
	assert.Equal(t, RawAndParsed, vt.State())
	layers, err := vt.ToStructured()
	require.NoError(t, err)
	assert.Equal(t, names, mvt.Names(layers))

	got, err := vt.RawBytes()
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	// parsing again is a no-op
	require.NoError(t, vt.Parse())
	assert.Equal(t, RawAndParsed, vt.State())

	// attaching raw bytes invalidates the parsed layers
	vt.AttachRaw(mvt.Encode(testLayers()[:1]))
	assert.Equal(t, RawOnly, vt.State())
	_, err = vt.ToStructured()
	assert.ErrorIs(t, err, ErrNotParsed)
}

func TestParse_emptyBuffer(t *testing.T) {
	vt := FromRaw(tilematrix.MustCoordinate(2, 1, 1), []byte{})
	names, err := vt.RawLayerNames()
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.True(t, vt.Empty())

	err = vt.Parse()
	assert.ErrorIs(t, err, mvt.ErrEmptyBuffer)
	assert.Contains(t, err.Error(), "cannot parse 0 length buffer as protobuf")
	assert.Equal(t, RawOnly, vt.State())

	raw, err := vt.RawBytes()
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestParse_malformedKeepsState(t *testing.T) {
	vt := FromRaw(tilematrix.MustCoordinate(0, 0, 0), []byte{0x1a, 0x10, 0x0a})
	err := vt.Parse()
	assert.ErrorIs(t, err, mvt.ErrMalformed)
	assert.Contains(t, err.Error(), "0/0/0")
	assert.Equal(t, RawOnly, vt.State())
}

func TestSerialize(t *testing.T) {
	vt := New(tilematrix.MustCoordinate(3, 2, 1))
	_, err := vt.Serialize()
	assert.ErrorIs(t, err, ErrNotParsed)

	vt.AttachLayers(testLayers())
	assert.Equal(t, Parsed, vt.State())
	_, err = vt.RawBytes()
	assert.ErrorIs(t, err, ErrNoRawData)

	raw, err := vt.Serialize()
	require.NoError(t, err)
	assert.Equal(t, RawAndParsed, vt.State())
	assert.Equal(t, mvt.Encode(testLayers()), raw)

	names, err := vt.RawLayerNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"lines", "points"}, names)

	// no layers serialize to the zero length buffer
	empty := New(tilematrix.MustCoordinate(0, 0, 0))
	empty.AttachLayers(nil)
	raw, err = empty.Serialize()
	require.NoError(t, err)
	assert.Empty(t, raw)
	assert.True(t, empty.Empty())
}

func TestClone(t *testing.T) {
	vt := FromRaw(tilematrix.MustCoordinate(1, 1, 1), mvt.Encode(testLayers()))
	require.NoError(t, vt.Parse())

	c := vt.Clone()
	assert.Equal(t, vt.State(), c.State())
	assert.Equal(t, vt.Coordinate(), c.Coordinate())

	layers, err := c.ToStructured()
	require.NoError(t, err)
	layers[0].Name = "changed"
	layers[0].Features[0].Properties.Set("name", mvt.StringValue("side street"))

	orig, err := vt.ToStructured()
	require.NoError(t, err)
	assert.Equal(t, "lines", orig[0].Name)
	v, _ := orig[0].Features[0].Properties.Get("name")
	assert.Equal(t, "main street", v.StringValue())

	raw, _ := c.RawBytes()
	raw[0] = 0
	origRaw, _ := vt.RawBytes()
	assert.NotEqual(t, raw[0], origRaw[0])
}

func TestState(t *testing.T) {
	tests := []struct {
		state     State
		hasRaw    bool
		hasParsed bool
	}{
		{Empty, false, false},
		{RawOnly, true, false},
		{Parsed, false, true},
		{RawAndParsed, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.hasRaw, tt.state.HasRaw())
			assert.Equal(t, tt.hasParsed, tt.state.HasParsed())
		})
	}
}
