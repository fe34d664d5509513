package mvt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyBuffer is returned when decoding a zero length buffer
	ErrEmptyBuffer = errors.New("cannot parse 0 length buffer as protobuf")
	// ErrMalformed is the kind of every DecodeError
	ErrMalformed = errors.New("malformed vector tile")
)

// DecodeError locates a malformation. Layer and Feature are -1 when not applicable.
type DecodeError struct {
	Layer   int
	Feature int
	Reason  string
	Err     error
}

func malformed(layer, feature int, reason string, err error) *DecodeError {
	return &DecodeError{Layer: layer, Feature: feature, Reason: reason, Err: err}
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrMalformed.Error())
	if e.Layer >= 0 {
		fmt.Fprintf(&sb, ": layer %d", e.Layer)
	}
	if e.Feature >= 0 {
		fmt.Fprintf(&sb, ", feature %d", e.Feature)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformed
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
