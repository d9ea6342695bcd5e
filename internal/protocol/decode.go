package protocol

import (
	"encoding/json"
	"fmt"
)

// Decode parses one inbound payload into its concrete envelope type.
//
// Unrecognized discriminants decode to Unknown rather than an error; the
// dispatcher treats those as ignorable. A missing discriminant or invalid
// JSON is a decode failure.
func Decode(data []byte) (Message, error) {
	var probe struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if probe.Type == "" {
		return nil, ErrMissingType
	}

	switch probe.Type {
	case TypeControl:
		return decodeAs[Control](data)
	case TypePing:
		return decodeAs[Ping](data)
	case TypePong:
		return decodeAs[Pong](data)
	case TypeDetectionResult:
		return decodeAs[DetectionResult](data)
	case TypeWelcome:
		return decodeAs[Welcome](data)
	case TypeHello:
		return decodeAs[Hello](data)
	case TypeFrame:
		return decodeAs[Frame](data)
	case TypeTelemetry:
		return decodeAs[Telemetry](data)
	case TypeControlResponse:
		return decodeAs[ControlResponse](data)
	default:
		return Unknown{Type: probe.Type}, nil
	}
}

func decodeAs[T any](data []byte) (*T, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &msg, nil
}
