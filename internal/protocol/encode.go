package protocol

import "encoding/json"

// Encode marshals one outbound envelope to its wire form.
func Encode(msg Message) ([]byte, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}
	if msg.MessageType() == "" {
		return nil, ErrMissingType
	}
	return json.Marshal(msg)
}

// NewHello builds the handshake envelope for one session attempt.
func NewHello(client, hostname string, simulation bool) *Hello {
	return &Hello{
		Type:           TypeHello,
		Client:         client,
		Timestamp:      Now(),
		Hostname:       hostname,
		SimulationMode: simulation,
	}
}

// NewFrame builds an outbound frame envelope. DepthData stays empty unless
// the caller attaches one.
func NewFrame(frameID uint64, image []byte, info CameraInfo, depthScale, fps float64) *Frame {
	return &Frame{
		Type:       TypeFrame,
		FrameID:    frameID,
		Timestamp:  Now(),
		Image:      image,
		CameraInfo: info,
		DepthScale: depthScale,
		FPS:        fps,
	}
}

// NewTelemetry builds an outbound telemetry envelope without an audio block.
func NewTelemetry(system SystemBlock, servo ServoBlock) *Telemetry {
	return &Telemetry{
		Type:      TypeTelemetry,
		Timestamp: Now(),
		System:    system,
		Servo:     servo,
	}
}

// NewControlResponse echoes the position an actuator command settled at.
func NewControlResponse(action string, success bool, position Position) *ControlResponse {
	return &ControlResponse{
		Type:      TypeControlResponse,
		Action:    action,
		Success:   success,
		Position:  position,
		Timestamp: Now(),
	}
}

// NewPing builds a liveness probe envelope.
func NewPing() *Ping {
	return &Ping{Type: TypePing, Timestamp: Now()}
}

// NewPong answers an inbound ping.
func NewPong() *Pong {
	return &Pong{Type: TypePong, Timestamp: Now()}
}
