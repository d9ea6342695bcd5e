package session

import "time"

// BackoffConfig defines reconnect delay growth between session attempts.
type BackoffConfig struct {
	BaseDelay    time.Duration
	GrowthFactor float64
	MaxDelay     time.Duration
	JitterMax    time.Duration
}

// Config defines session/transport behavior for one client.
type Config struct {
	ClientName     string
	Hostname       string
	SimulationMode bool

	// Frame pipeline
	SendEveryNFrames int
	JPEGQuality      int
	NominalFPS       float64
	FramePollDelay   time.Duration
	FrameRetryDelay  time.Duration
	FrameErrorDelay  time.Duration

	// Reporting intervals
	TelemetryInterval time.Duration
	KeepaliveInterval time.Duration

	// Transport
	ConnectTimeout   time.Duration
	HandshakeTimeout time.Duration
	CloseTimeout     time.Duration
	MaxMessageBytes  int64

	// Supervision
	GracePeriod time.Duration

	// Reconnection
	MaxAttempts int
	Backoff     BackoffConfig
}

// DefaultConfig returns the reference client defaults.
func DefaultConfig() Config {
	return Config{
		ClientName:        "edgecam",
		SendEveryNFrames:  2,
		JPEGQuality:       75,
		NominalFPS:        30.0,
		FramePollDelay:    10 * time.Millisecond,
		FrameRetryDelay:   100 * time.Millisecond,
		FrameErrorDelay:   500 * time.Millisecond,
		TelemetryInterval: time.Second,
		KeepaliveInterval: 30 * time.Second,
		ConnectTimeout:    10 * time.Second,
		HandshakeTimeout:  5 * time.Second,
		CloseTimeout:      2 * time.Second,
		MaxMessageBytes:   20 * 1024 * 1024,
		GracePeriod:       3 * time.Second,
		MaxAttempts:       10,
		Backoff: BackoffConfig{
			BaseDelay:    5 * time.Second,
			GrowthFactor: 1.5,
			MaxDelay:     60 * time.Second,
			JitterMax:    2 * time.Second,
		},
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.ClientName == "" {
		c.ClientName = def.ClientName
	}
	if c.SendEveryNFrames <= 0 {
		c.SendEveryNFrames = def.SendEveryNFrames
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = def.JPEGQuality
	}
	if c.NominalFPS <= 0 {
		c.NominalFPS = def.NominalFPS
	}
	if c.FramePollDelay <= 0 {
		c.FramePollDelay = def.FramePollDelay
	}
	if c.FrameRetryDelay <= 0 {
		c.FrameRetryDelay = def.FrameRetryDelay
	}
	if c.FrameErrorDelay <= 0 {
		c.FrameErrorDelay = def.FrameErrorDelay
	}
	if c.TelemetryInterval <= 0 {
		c.TelemetryInterval = def.TelemetryInterval
	}
	if c.KeepaliveInterval <= 0 {
		c.KeepaliveInterval = def.KeepaliveInterval
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = def.ConnectTimeout
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = def.HandshakeTimeout
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = def.CloseTimeout
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = def.MaxMessageBytes
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = def.GracePeriod
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.Backoff.BaseDelay <= 0 {
		c.Backoff.BaseDelay = def.Backoff.BaseDelay
	}
	if c.Backoff.GrowthFactor < 1.0 {
		c.Backoff.GrowthFactor = def.Backoff.GrowthFactor
	}
	if c.Backoff.MaxDelay <= 0 {
		c.Backoff.MaxDelay = def.Backoff.MaxDelay
	}
	return c
}
