package hardware

import "sync"

const (
	servoMinDegrees    = 0.0
	servoMaxDegrees    = 180.0
	servoCenterDegrees = 90.0

	// The reference mount drives pan and tilt only; roll is reported at a
	// fixed position.
	servoRollDegrees = 90.0
)

// Position is a pan/tilt/roll triple in degrees.
type Position struct {
	Pan  float64
	Tilt float64
	Roll float64
}

// ServoStatus is the actuator status record reported via telemetry.
type ServoStatus struct {
	Positions   Position
	Initialized bool
}

// ServoActuator is the actuation capability consumed by the inbound
// dispatcher and telemetry reporter. Nil axis arguments leave that axis
// unchanged; all inputs are clamped to the servo range before applying.
type ServoActuator interface {
	SetPosition(pan, tilt, roll *float64) Position
	Center() Position
	Status() ServoStatus
}

// SimServos tracks servo positions without driving hardware.
type SimServos struct {
	mu   sync.Mutex
	pan  float64
	tilt float64
}

func NewSimServos() *SimServos {
	return &SimServos{pan: servoCenterDegrees, tilt: servoCenterDegrees}
}

func (s *SimServos) SetPosition(pan, tilt, roll *float64) Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pan != nil {
		s.pan = clampDegrees(*pan)
	}
	if tilt != nil {
		s.tilt = clampDegrees(*tilt)
	}
	// roll accepted but not driven
	_ = roll
	return Position{Pan: s.pan, Tilt: s.tilt, Roll: servoRollDegrees}
}

func (s *SimServos) Center() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pan = servoCenterDegrees
	s.tilt = servoCenterDegrees
	return Position{Pan: s.pan, Tilt: s.tilt, Roll: servoRollDegrees}
}

func (s *SimServos) Status() ServoStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ServoStatus{
		Positions:   Position{Pan: s.pan, Tilt: s.tilt, Roll: servoRollDegrees},
		Initialized: true,
	}
}

func clampDegrees(v float64) float64 {
	if v < servoMinDegrees {
		return servoMinDegrees
	}
	if v > servoMaxDegrees {
		return servoMaxDegrees
	}
	return v
}
