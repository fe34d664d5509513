// Package vectortile holds one tile's raw encoded bytes and/or its parsed
// layers, and keeps track of which of the two representations is valid.
//
// A VectorTile is owned by a single goroutine at a time. Use Clone to hand
// a copy to another goroutine.
package vectortile

import (
	"errors"
	"fmt"

	"github.com/pdok/vtcomposite/mvt"
	"github.com/pdok/vtcomposite/tilematrix"
)

var (
	// ErrNotParsed is returned when layers are requested before a successful parse
	ErrNotParsed = errors.New("vector tile is not parsed")
	// ErrNoRawData is returned when raw bytes are requested but none are attached
	ErrNoRawData = errors.New("vector tile has no raw data")
)

type State uint8

const (
	Empty State = iota
	RawOnly
	Parsed
	RawAndParsed
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case RawOnly:
		return "RawOnly"
	case Parsed:
		return "Parsed"
	case RawAndParsed:
		return "RawAndParsed"
	}
	return fmt.Sprintf("State(%d)", s)
}

// HasRaw is true in RawOnly and RawAndParsed
func (s State) HasRaw() bool { return s == RawOnly || s == RawAndParsed }

// HasParsed is true in Parsed and RawAndParsed
func (s State) HasParsed() bool { return s == Parsed || s == RawAndParsed }

type VectorTile struct {
	coordinate tilematrix.Coordinate
	state      State
	raw        []byte
	layers     []mvt.Layer
}

// New returns an empty tile bound to a coordinate
func New(c tilematrix.Coordinate) *VectorTile {
	return &VectorTile{coordinate: c}
}

// FromRaw returns a RawOnly tile
func FromRaw(c tilematrix.Coordinate, raw []byte) *VectorTile {
	vt := New(c)
	vt.AttachRaw(raw)
	return vt
}

func (vt *VectorTile) Coordinate() tilematrix.Coordinate { return vt.coordinate }

func (vt *VectorTile) State() State { return vt.state }

// AttachRaw replaces the raw bytes and drops any parsed layers.
// A zero length buffer is attached as is, it will fail to parse.
func (vt *VectorTile) AttachRaw(raw []byte) {
	if raw == nil {
		raw = []byte{}
	}
	vt.raw = raw
	vt.layers = nil
	vt.state = RawOnly
}

// AttachLayers replaces the parsed layers and drops the raw bytes
func (vt *VectorTile) AttachLayers(layers []mvt.Layer) {
	vt.raw = nil
	vt.layers = layers
	vt.state = Parsed
}

// RawLayerNames lists the layer names by scanning the raw bytes, without parsing.
func (vt *VectorTile) RawLayerNames() ([]string, error) {
	if !vt.state.HasRaw() {
		return nil, fmt.Errorf("tile %s: %w", vt.coordinate, ErrNoRawData)
	}
	names, err := mvt.LayerNames(vt.raw)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", vt.coordinate, err)
	}
	return names, nil
}

// Parse decodes the raw bytes. On failure the state is left unchanged.
func (vt *VectorTile) Parse() error {
	switch vt.state {
	case RawAndParsed:
		return nil
	case RawOnly:
	default:
		return fmt.Errorf("tile %s: %w", vt.coordinate, ErrNoRawData)
	}
	layers, err := mvt.Decode(vt.raw)
	if err != nil {
		return fmt.Errorf("tile %s: %w", vt.coordinate, err)
	}
	vt.layers = layers
	vt.state = RawAndParsed
	return nil
}

// RawBytes returns the raw bytes as attached, whether parsed or not
func (vt *VectorTile) RawBytes() ([]byte, error) {
	if !vt.state.HasRaw() {
		return nil, fmt.Errorf("tile %s: %w", vt.coordinate, ErrNoRawData)
	}
	return vt.raw, nil
}

// ToStructured returns the parsed layers
func (vt *VectorTile) ToStructured() ([]mvt.Layer, error) {
	if !vt.state.HasParsed() {
		return nil, fmt.Errorf("tile %s: %w", vt.coordinate, ErrNotParsed)
	}
	return vt.layers, nil
}

// Serialize encodes parsed layers into raw bytes, moving a Parsed tile to RawAndParsed.
// Raw bytes that are already present are returned as is.
func (vt *VectorTile) Serialize() ([]byte, error) {
	switch vt.state {
	case RawOnly, RawAndParsed:
		return vt.raw, nil
	case Parsed:
		vt.raw = mvt.Encode(vt.layers)
		if vt.raw == nil {
			vt.raw = []byte{}
		}
		vt.state = RawAndParsed
		return vt.raw, nil
	}
	return nil, fmt.Errorf("tile %s: %w", vt.coordinate, ErrNotParsed)
}

// Size is the length of the raw bytes, zero without raw bytes
func (vt *VectorTile) Size() int {
	return len(vt.raw)
}

// Empty is true when there are no raw bytes (or zero of them) and no parsed layers
func (vt *VectorTile) Empty() bool {
	return len(vt.raw) == 0 && len(vt.layers) == 0
}

// Clone returns a deep copy that can be handed to another goroutine
func (vt *VectorTile) Clone() *VectorTile {
	c := &VectorTile{coordinate: vt.coordinate, state: vt.state}
	if vt.raw != nil {
		c.raw = append([]byte{}, vt.raw...)
	}
	if vt.layers != nil {
		c.layers = make([]mvt.Layer, len(vt.layers))
		for i, l := range vt.layers {
			c.layers[i] = l.Clone()
		}
	}
	return c
}

func (vt *VectorTile) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", vt.coordinate, vt.state, len(vt.raw))
}
