package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/edgecam/internal/testutil/testlog"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edgecam.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppConfigOverlaysDefinedKeys(t *testing.T) {
	testlog.Start(t)
	path := writeConfigFile(t, `
server_address = "10.0.0.7"
simulation_mode = true

[camera]
width = 1280
jpeg_quality = 60

[telemetry]
interval = "2s"

[reconnect]
max_attempts = 4
base_delay = "500ms"

[ops]
addr = ":9100"
cors_origins = ["http://localhost:3000", " ", ""]
`)

	cfg, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.ServerAddress != "10.0.0.7" {
		t.Fatalf("server_address not applied: %q", cfg.ServerAddress)
	}
	if !cfg.Session.SimulationMode {
		t.Fatalf("simulation_mode not applied")
	}
	if cfg.CameraWidth != 1280 {
		t.Fatalf("camera.width not applied: %d", cfg.CameraWidth)
	}
	if cfg.Session.JPEGQuality != 60 {
		t.Fatalf("camera.jpeg_quality not applied: %d", cfg.Session.JPEGQuality)
	}
	if cfg.Session.TelemetryInterval != 2*time.Second {
		t.Fatalf("telemetry.interval not applied: %v", cfg.Session.TelemetryInterval)
	}
	if cfg.Session.MaxAttempts != 4 {
		t.Fatalf("reconnect.max_attempts not applied: %d", cfg.Session.MaxAttempts)
	}
	if cfg.Session.Backoff.BaseDelay != 500*time.Millisecond {
		t.Fatalf("reconnect.base_delay not applied: %v", cfg.Session.Backoff.BaseDelay)
	}
	if cfg.OpsAddr != ":9100" {
		t.Fatalf("ops.addr not applied: %q", cfg.OpsAddr)
	}
	if len(cfg.CorsOrigins) != 1 || cfg.CorsOrigins[0] != "http://localhost:3000" {
		t.Fatalf("ops.cors_origins not normalized: %v", cfg.CorsOrigins)
	}

	// keys absent from the file keep their defaults
	def := defaultAppConfig()
	if cfg.ServerPort != def.ServerPort {
		t.Fatalf("server_port should keep default, got %d", cfg.ServerPort)
	}
	if cfg.CameraHeight != def.CameraHeight {
		t.Fatalf("camera.height should keep default, got %d", cfg.CameraHeight)
	}
	if cfg.Session.KeepaliveInterval != def.Session.KeepaliveInterval {
		t.Fatalf("keepalive.interval should keep default, got %v", cfg.Session.KeepaliveInterval)
	}
	if cfg.Session.Backoff.GrowthFactor != def.Session.Backoff.GrowthFactor {
		t.Fatalf("reconnect.growth_factor should keep default, got %v", cfg.Session.Backoff.GrowthFactor)
	}
}

func TestLoadAppConfigEmptyFileKeepsDefaults(t *testing.T) {
	testlog.Start(t)
	path := writeConfigFile(t, "")

	cfg, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := defaultAppConfig()
	if cfg.ServerAddress != def.ServerAddress || cfg.ServerPort != def.ServerPort {
		t.Fatalf("defaults not preserved: %+v", cfg)
	}
	if cfg.Session.SendEveryNFrames != def.Session.SendEveryNFrames {
		t.Fatalf("session defaults not preserved: %+v", cfg.Session)
	}
}

func TestLoadAppConfigBadDuration(t *testing.T) {
	testlog.Start(t)
	path := writeConfigFile(t, `
[telemetry]
interval = "soon"
`)
	if _, err := loadAppConfig(path); err == nil {
		t.Fatalf("expected a duration parse error")
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	testlog.Start(t)
	if _, err := loadAppConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestServerURL(t *testing.T) {
	testlog.Start(t)
	cfg := defaultAppConfig()
	cfg.ServerAddress = "cam.local"
	cfg.ServerPort = 5000
	if got := cfg.serverURL(); got != "ws://cam.local:5000" {
		t.Fatalf("unexpected url: %q", got)
	}
}
