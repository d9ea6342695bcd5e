package protocol

import "time"

// Type is the envelope discriminant carried in the wire `type` field.
type Type string

const (
	TypeHello           Type = "hello"
	TypeFrame           Type = "frame"
	TypeTelemetry       Type = "telemetry"
	TypeControl         Type = "control"
	TypeControlResponse Type = "control_response"
	TypePing            Type = "ping"
	TypePong            Type = "pong"
	TypeDetectionResult Type = "detection_result"
	TypeWelcome         Type = "welcome"
)

// Control actions accepted from the controller.
const (
	ActionMoveServos   = "move_servos"
	ActionCenterServos = "center_servos"
)

// Message is one self-contained wire envelope.
type Message interface {
	MessageType() Type
}

// Now returns the wire timestamp form: epoch seconds with fraction.
func Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// Hello is the client->controller session handshake envelope.
type Hello struct {
	Type           Type    `json:"type"`
	Client         string  `json:"client"`
	Timestamp      float64 `json:"timestamp"`
	Hostname       string  `json:"hostname"`
	SimulationMode bool    `json:"simulation_mode"`
}

func (Hello) MessageType() Type { return TypeHello }

// CameraInfo is the camera metadata block embedded in Frame envelopes.
type CameraInfo struct {
	Model      string `json:"model"`
	Serial     string `json:"serial"`
	Resolution [2]int `json:"resolution"`
}

// Frame carries one encoded color image and optional depth image.
// Image and DepthData marshal as base64 text, the wire form.
type Frame struct {
	Type       Type       `json:"type"`
	FrameID    uint64     `json:"frame_id"`
	Timestamp  float64    `json:"timestamp"`
	Image      []byte     `json:"image"`
	DepthData  []byte     `json:"depth_data,omitempty"`
	CameraInfo CameraInfo `json:"camera_info"`
	DepthScale float64    `json:"depth_scale"`
	FPS        float64    `json:"fps"`
}

func (Frame) MessageType() Type { return TypeFrame }

// MemoryStats is the telemetry memory breakdown in bytes.
type MemoryStats struct {
	Total       uint64  `json:"total"`
	Free        uint64  `json:"free"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"used_percent"`
}

// SystemBlock is the host portion of a Telemetry envelope.
type SystemBlock struct {
	Hostname    string      `json:"hostname"`
	Uptime      float64     `json:"uptime"`
	Temperature float64     `json:"temperature"`
	Memory      MemoryStats `json:"memory"`
}

// Position is a pan/tilt/roll triple in degrees.
type Position struct {
	Pan  float64 `json:"pan"`
	Tilt float64 `json:"tilt"`
	Roll float64 `json:"roll"`
}

// ServoBlock is the actuator portion of a Telemetry envelope.
type ServoBlock struct {
	Positions   Position `json:"positions"`
	Initialized bool     `json:"initialized"`
}

// AudioBlock is the optional microphone portion of a Telemetry envelope.
type AudioBlock struct {
	Levels    []float64 `json:"levels"`
	Direction float64   `json:"direction"`
}

// Telemetry is the periodic client->controller status envelope.
type Telemetry struct {
	Type      Type        `json:"type"`
	Timestamp float64     `json:"timestamp"`
	System    SystemBlock `json:"system"`
	Servo     ServoBlock  `json:"servo"`
	Audio     *AudioBlock `json:"audio,omitempty"`
}

func (Telemetry) MessageType() Type { return TypeTelemetry }

// ControlParams carries the optional axes of a move_servos control.
type ControlParams struct {
	Pan  *float64 `json:"pan,omitempty"`
	Tilt *float64 `json:"tilt,omitempty"`
	Roll *float64 `json:"roll,omitempty"`
}

// Control is a controller->client actuator command envelope.
type Control struct {
	Type      Type          `json:"type"`
	Action    string        `json:"action"`
	Params    ControlParams `json:"params"`
	Timestamp float64       `json:"timestamp"`
}

func (Control) MessageType() Type { return TypeControl }

// ControlResponse echoes the actuator position reached by a Control.
type ControlResponse struct {
	Type      Type     `json:"type"`
	Action    string   `json:"action"`
	Success   bool     `json:"success"`
	Position  Position `json:"position"`
	Timestamp float64  `json:"timestamp"`
}

func (ControlResponse) MessageType() Type { return TypeControlResponse }

// Ping is the liveness probe envelope, valid in either direction.
type Ping struct {
	Type      Type    `json:"type"`
	Timestamp float64 `json:"timestamp"`
}

func (Ping) MessageType() Type { return TypePing }

// Pong answers a Ping.
type Pong struct {
	Type      Type    `json:"type"`
	Timestamp float64 `json:"timestamp"`
}

func (Pong) MessageType() Type { return TypePong }

// Detection is one detection entry in a DetectionResult envelope.
type Detection struct {
	Label      string     `json:"label"`
	Confidence float64    `json:"confidence"`
	Box        [4]float64 `json:"box"`
}

// DetectionResult is the controller->client inference feedback envelope.
type DetectionResult struct {
	Type       Type        `json:"type"`
	FrameID    uint64      `json:"frame_id"`
	Detections []Detection `json:"detections"`
	Timestamp  float64     `json:"timestamp"`
}

func (DetectionResult) MessageType() Type { return TypeDetectionResult }

// Welcome is the controller's session acknowledgment. Informational only.
type Welcome struct {
	Type      Type    `json:"type"`
	Timestamp float64 `json:"timestamp"`
}

func (Welcome) MessageType() Type { return TypeWelcome }

// Unknown preserves the discriminant of an unrecognized inbound envelope
// so the dispatcher can log and skip it without failing.
type Unknown struct {
	Type Type
}

func (u Unknown) MessageType() Type { return u.Type }
