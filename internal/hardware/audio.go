package hardware

import (
	"math/rand"
	"sync"
	"time"
)

// AudioSensor is the optional microphone array capability. Levels are one
// reading per microphone; direction is an estimated bearing in degrees.
type AudioSensor interface {
	ReadAllMicrophones() []float64
	DetectDirection() float64
}

// SimAudio emits low-level noise readings from a four-microphone array.
type SimAudio struct {
	mu        sync.Mutex
	rng       *rand.Rand
	direction float64
}

func NewSimAudio() *SimAudio {
	return &SimAudio{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (a *SimAudio) ReadAllMicrophones() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	levels := make([]float64, 4)
	for i := range levels {
		levels[i] = 0.05 + a.rng.Float64()*0.1
	}
	return levels
}

func (a *SimAudio) DetectDirection() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	// drifting bearing, wrapped to [0, 360)
	a.direction += a.rng.Float64()*20 - 10
	for a.direction < 0 {
		a.direction += 360
	}
	for a.direction >= 360 {
		a.direction -= 360
	}
	return a.direction
}
