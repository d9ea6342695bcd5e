package protocol

import "errors"

var (
	ErrNilMessage       = errors.New("protocol: nil message")
	ErrMalformedPayload = errors.New("protocol: malformed payload")
	ErrMissingType      = errors.New("protocol: missing type discriminant")
)
