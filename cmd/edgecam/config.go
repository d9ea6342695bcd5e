package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/edgecam/internal/session"
)

const version = "1.0.0"

// appConfig is the full runtime configuration: controller endpoint, local
// ops endpoint, hardware selection, and session behavior.
type appConfig struct {
	ServerAddress string
	ServerPort    int
	OpsAddr       string
	CorsOrigins   []string
	CameraWidth   int
	CameraHeight  int
	EnableDepth   bool
	EnableAudio   bool
	Session       session.Config
}

func defaultAppConfig() appConfig {
	return appConfig{
		ServerAddress: "192.168.50.86",
		ServerPort:    5000,
		OpsAddr:       ":9000",
		CameraWidth:   640,
		CameraHeight:  480,
		Session:       session.DefaultConfig(),
	}
}

// serverURL builds the controller websocket endpoint.
func (c appConfig) serverURL() string {
	return fmt.Sprintf("ws://%s:%d", c.ServerAddress, c.ServerPort)
}

type fileConfig struct {
	ServerAddress  string `toml:"server_address"`
	ServerPort     int    `toml:"server_port"`
	ClientName     string `toml:"client_name"`
	SimulationMode bool   `toml:"simulation_mode"`

	Camera struct {
		Width            int     `toml:"width"`
		Height           int     `toml:"height"`
		FPS              float64 `toml:"fps"`
		JPEGQuality      int     `toml:"jpeg_quality"`
		SendEveryNFrames int     `toml:"send_every_n_frames"`
		Depth            bool    `toml:"depth"`
	} `toml:"camera"`

	Telemetry struct {
		Interval string `toml:"interval"`
	} `toml:"telemetry"`

	Keepalive struct {
		Interval string `toml:"interval"`
	} `toml:"keepalive"`

	Audio struct {
		Enabled bool `toml:"enabled"`
	} `toml:"audio"`

	Reconnect struct {
		MaxAttempts  int     `toml:"max_attempts"`
		BaseDelay    string  `toml:"base_delay"`
		GrowthFactor float64 `toml:"growth_factor"`
		MaxDelay     string  `toml:"max_delay"`
		JitterMax    string  `toml:"jitter_max"`
	} `toml:"reconnect"`

	Transport struct {
		ConnectTimeout   string `toml:"connect_timeout"`
		HandshakeTimeout string `toml:"handshake_timeout"`
		CloseTimeout     string `toml:"close_timeout"`
		MaxMessageBytes  int64  `toml:"max_message_bytes"`
	} `toml:"transport"`

	Ops struct {
		Addr        string   `toml:"addr"`
		CorsOrigins []string `toml:"cors_origins"`
	} `toml:"ops"`
}

// loadAppConfig overlays values defined in the TOML file on top of the
// built-in defaults. Keys absent from the file keep their defaults.
func loadAppConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return appConfig{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("server_address") {
		if addr := strings.TrimSpace(raw.ServerAddress); addr != "" {
			cfg.ServerAddress = addr
		}
	}
	if meta.IsDefined("server_port") {
		cfg.ServerPort = raw.ServerPort
	}
	if meta.IsDefined("client_name") {
		if name := strings.TrimSpace(raw.ClientName); name != "" {
			cfg.Session.ClientName = name
		}
	}
	if meta.IsDefined("simulation_mode") {
		cfg.Session.SimulationMode = raw.SimulationMode
	}

	if meta.IsDefined("camera", "width") {
		cfg.CameraWidth = raw.Camera.Width
	}
	if meta.IsDefined("camera", "height") {
		cfg.CameraHeight = raw.Camera.Height
	}
	if meta.IsDefined("camera", "fps") {
		cfg.Session.NominalFPS = raw.Camera.FPS
	}
	if meta.IsDefined("camera", "jpeg_quality") {
		cfg.Session.JPEGQuality = raw.Camera.JPEGQuality
	}
	if meta.IsDefined("camera", "send_every_n_frames") {
		cfg.Session.SendEveryNFrames = raw.Camera.SendEveryNFrames
	}
	if meta.IsDefined("camera", "depth") {
		cfg.EnableDepth = raw.Camera.Depth
	}

	if meta.IsDefined("telemetry", "interval") {
		d, err := parseConfigDuration("telemetry.interval", raw.Telemetry.Interval)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Session.TelemetryInterval = d
	}
	if meta.IsDefined("keepalive", "interval") {
		d, err := parseConfigDuration("keepalive.interval", raw.Keepalive.Interval)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Session.KeepaliveInterval = d
	}

	if meta.IsDefined("audio", "enabled") {
		cfg.EnableAudio = raw.Audio.Enabled
	}

	if meta.IsDefined("reconnect", "max_attempts") {
		cfg.Session.MaxAttempts = raw.Reconnect.MaxAttempts
	}
	if meta.IsDefined("reconnect", "base_delay") {
		d, err := parseConfigDuration("reconnect.base_delay", raw.Reconnect.BaseDelay)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Session.Backoff.BaseDelay = d
	}
	if meta.IsDefined("reconnect", "growth_factor") {
		cfg.Session.Backoff.GrowthFactor = raw.Reconnect.GrowthFactor
	}
	if meta.IsDefined("reconnect", "max_delay") {
		d, err := parseConfigDuration("reconnect.max_delay", raw.Reconnect.MaxDelay)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Session.Backoff.MaxDelay = d
	}
	if meta.IsDefined("reconnect", "jitter_max") {
		d, err := parseConfigDuration("reconnect.jitter_max", raw.Reconnect.JitterMax)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Session.Backoff.JitterMax = d
	}

	if meta.IsDefined("transport", "connect_timeout") {
		d, err := parseConfigDuration("transport.connect_timeout", raw.Transport.ConnectTimeout)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Session.ConnectTimeout = d
	}
	if meta.IsDefined("transport", "handshake_timeout") {
		d, err := parseConfigDuration("transport.handshake_timeout", raw.Transport.HandshakeTimeout)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Session.HandshakeTimeout = d
	}
	if meta.IsDefined("transport", "close_timeout") {
		d, err := parseConfigDuration("transport.close_timeout", raw.Transport.CloseTimeout)
		if err != nil {
			return appConfig{}, err
		}
		cfg.Session.CloseTimeout = d
	}
	if meta.IsDefined("transport", "max_message_bytes") {
		cfg.Session.MaxMessageBytes = raw.Transport.MaxMessageBytes
	}

	if meta.IsDefined("ops", "addr") {
		cfg.OpsAddr = strings.TrimSpace(raw.Ops.Addr)
	}
	if meta.IsDefined("ops", "cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.Ops.CorsOrigins)
	}

	return cfg, nil
}

func parseConfigDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
