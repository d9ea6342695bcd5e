package session

import (
	"math"
	"math/rand"
	"time"
)

// NextDelay returns the reconnect delay for attempt N (1-based).
//
// The deterministic part is base*growth^(N-1) clamped to MaxDelay; jitter
// from [0, JitterMax) is strictly additive on top of it. A nil rng disables
// jitter, which keeps retry timing deterministic under test.
func NextDelay(cfg BackoffConfig, attempt int, rng *rand.Rand) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	growth := cfg.GrowthFactor
	if growth < 1.0 {
		growth = 1.0
	}
	delay := float64(cfg.BaseDelay) * math.Pow(growth, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if delay < 0 {
		delay = 0
	}
	d := time.Duration(delay)
	if cfg.JitterMax > 0 && rng != nil {
		d += time.Duration(rng.Int63n(int64(cfg.JitterMax)))
	}
	return d
}
