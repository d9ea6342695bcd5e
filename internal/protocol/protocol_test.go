package protocol

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecodeControlMoveServos(t *testing.T) {
	payload := []byte(`{"type":"control","action":"move_servos","params":{"pan":120.5,"tilt":60}}`)
	msg, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ctrl, ok := msg.(*Control)
	if !ok {
		t.Fatalf("unexpected message type %T", msg)
	}
	if ctrl.Action != ActionMoveServos {
		t.Fatalf("unexpected action=%q", ctrl.Action)
	}
	if ctrl.Params.Pan == nil || *ctrl.Params.Pan != 120.5 {
		t.Fatalf("unexpected pan=%v", ctrl.Params.Pan)
	}
	if ctrl.Params.Tilt == nil || *ctrl.Params.Tilt != 60 {
		t.Fatalf("unexpected tilt=%v", ctrl.Params.Tilt)
	}
	if ctrl.Params.Roll != nil {
		t.Fatalf("roll should be absent, got %v", *ctrl.Params.Roll)
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"control",`)); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
	if _, err := Decode([]byte(`{"timestamp":1.0}`)); !errors.Is(err, ErrMissingType) {
		t.Fatalf("expected ErrMissingType, got %v", err)
	}
}

func TestDecodeUnknownTypeIsNotAnError(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"firmware_update","timestamp":1.0}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	unknown, ok := msg.(Unknown)
	if !ok {
		t.Fatalf("unexpected message type %T", msg)
	}
	if unknown.MessageType() != "firmware_update" {
		t.Fatalf("unexpected type=%q", unknown.MessageType())
	}
}

func TestEncodeFrameWireShape(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0xe0}
	frame := NewFrame(42, image, CameraInfo{
		Model:      "D455",
		Serial:     "843112071",
		Resolution: [2]int{640, 480},
	}, 0.001, 14.2)

	data, err := Encode(frame)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal wire form: %v", err)
	}
	if raw["type"] != "frame" {
		t.Fatalf("unexpected type=%v", raw["type"])
	}
	if raw["frame_id"] != float64(42) {
		t.Fatalf("unexpected frame_id=%v", raw["frame_id"])
	}
	encoded, ok := raw["image"].(string)
	if !ok {
		t.Fatalf("image should marshal as base64 text, got %T", raw["image"])
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("image is not valid base64: %v", err)
	}
	if string(decoded) != string(image) {
		t.Fatalf("image payload corrupted in transit")
	}
	if strings.Contains(string(data), "depth_data") {
		t.Fatalf("absent depth image should be omitted from the wire form")
	}
}

func TestEncodeRejectsNil(t *testing.T) {
	if _, err := Encode(nil); !errors.Is(err, ErrNilMessage) {
		t.Fatalf("expected ErrNilMessage, got %v", err)
	}
}

func TestHelloRoundTrip(t *testing.T) {
	hello := NewHello("edgecam", "pi-unit-7", true)
	data, err := Encode(hello)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := msg.(*Hello)
	if !ok {
		t.Fatalf("unexpected message type %T", msg)
	}
	if got.Hostname != "pi-unit-7" || !got.SimulationMode || got.Client != "edgecam" {
		t.Fatalf("unexpected hello: %+v", got)
	}
	if got.Timestamp <= 0 {
		t.Fatalf("timestamp not populated")
	}
}
