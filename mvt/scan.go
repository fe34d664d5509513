package mvt

import (
	"errors"

	"google.golang.org/protobuf/encoding/protowire"
)

// LayerNames lists the layer names in wire order without decoding features.
// A zero length buffer has no layers.
func LayerNames(b []byte) ([]string, error) {
	names := []string{}
	err := eachField(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != tileLayers {
			return 0, nil
		}
		raw, n, err := consumeBytes(num, typ, b)
		if err != nil {
			return 0, malformed(len(names), -1, "invalid layer field", err)
		}
		name, err := scanLayerName(raw)
		if err != nil {
			return 0, malformed(len(names), -1, "invalid layer", err)
		}
		names = append(names, name)
		return n, nil
	})
	if err != nil {
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			err = malformed(-1, -1, "invalid tile", err)
		}
		return nil, err
	}
	return names, nil
}

var errNoName = errors.New("layer has no name")

func scanLayerName(raw []byte) (string, error) {
	var name *string
	err := eachField(raw, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != layerName {
			return 0, nil
		}
		v, n, err := consumeBytes(num, typ, b)
		s := string(v)
		name = &s
		return n, err
	})
	if err != nil {
		return "", err
	}
	if name == nil {
		return "", errNoName
	}
	return *name, nil
}
