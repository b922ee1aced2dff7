package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind is returned for a well-formed envelope whose kind is
	// not one of the five known message kinds.
	ErrUnknownKind = errors.New("protocol: unknown message kind")

	// ErrMalformed is returned when the envelope or payload cannot be
	// decoded, or decodes to an invalid value.
	ErrMalformed = errors.New("protocol: malformed message")
)

// DecodeError describes a message that could not be decoded.
// It unwraps to ErrUnknownKind or ErrMalformed.
type DecodeError struct {
	Kind   Kind
	Reason error // ErrUnknownKind or ErrMalformed
	Err    error // underlying cause, may be nil
}

func (e *DecodeError) Error() string {
	kind := string(e.Kind)
	if kind == "" {
		kind = "?"
	}
	if e.Err != nil {
		return fmt.Sprintf("%v (kind %s): %v", e.Reason, kind, e.Err)
	}
	return fmt.Sprintf("%v (kind %s)", e.Reason, kind)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

func malformed(kind Kind, err error) error {
	return &DecodeError{Kind: kind, Reason: ErrMalformed, Err: err}
}
