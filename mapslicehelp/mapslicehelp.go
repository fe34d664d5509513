package mapslicehelp

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// LastElement returns a pointer to the last element, or nil for an empty slice
func LastElement[T any](elements []T) *T {
	if n := len(elements); n > 0 {
		return &elements[n-1]
	}
	return nil
}

// AsKeys turns a slice into a set
func AsKeys[T comparable](elements []T) map[T]struct{} {
	set := make(map[T]struct{}, len(elements))
	for _, element := range elements {
		set[element] = struct{}{}
	}
	return set
}

// OrderedMapKeys returns the keys in insertion order
func OrderedMapKeys[K comparable, V any](m *orderedmap.OrderedMap[K, V]) []K {
	keys := make([]K, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}
