package mvt

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	// MaxCoordinate bounds tile-local coordinates on both axes, so that the
	// delta between any two points fits the 32 bit zigzag encoding
	MaxCoordinate = 1<<30 - 1
	// DefaultExtent is the extent of a layer that does not specify one
	DefaultExtent uint32 = 4096
	// DefaultVersion is used for layers written by this package
	DefaultVersion uint32 = 2
)

// Properties maps keys to values in insertion order
type Properties = orderedmap.OrderedMap[string, Value]

func NewProperties() *Properties {
	return orderedmap.New[string, Value]()
}

type Feature struct {
	ID         *uint64
	Geometry   Geometry
	Properties *Properties
}

func NewFeature(g Geometry) Feature {
	return Feature{Geometry: g, Properties: NewProperties()}
}

// WithID sets the feature's id
func (f Feature) WithID(id uint64) Feature {
	f.ID = &id
	return f
}

// Clone returns a deep copy
func (f Feature) Clone() Feature {
	c := Feature{Geometry: f.Geometry.Clone(), Properties: NewProperties()}
	if f.ID != nil {
		id := *f.ID
		c.ID = &id
	}
	if f.Properties != nil {
		for p := f.Properties.Oldest(); p != nil; p = p.Next() {
			c.Properties.Set(p.Key, p.Value)
		}
	}
	return c
}

// Layer is a named group of features. Names do not have to be unique within a tile.
type Layer struct {
	Name     string
	Version  uint32
	Extent   uint32
	Features []Feature

	// the layer message exactly as it was decoded
	raw []byte
}

func NewLayer(name string, features ...Feature) Layer {
	return Layer{Name: name, Version: DefaultVersion, Extent: DefaultExtent, Features: features}
}

// Raw returns the encoded layer message this layer was decoded from, or nil
// for layers that were not decoded. It is not updated when the layer is changed.
func (l Layer) Raw() []byte {
	return l.raw
}

// Clone returns a deep copy. The decoded raw message is shared, it is never modified.
func (l Layer) Clone() Layer {
	c := l
	c.Features = make([]Feature, len(l.Features))
	for i, f := range l.Features {
		c.Features[i] = f.Clone()
	}
	return c
}

// Names lists the names of the layers in order
func Names(layers []Layer) []string {
	names := make([]string, len(layers))
	for i := range layers {
		names[i] = layers[i].Name
	}
	return names
}
