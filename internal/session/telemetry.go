package session

import (
	"context"
	"fmt"
	"time"

	"github.com/danmuck/edgecam/internal/observability"
	"github.com/danmuck/edgecam/internal/protocol"
)

// runTelemetry samples host, actuator, and optional audio state on a fixed
// interval and ships it as one Telemetry envelope. Collaborator read
// failures degrade the affected field for that cycle; a send failure ends
// the task.
func (s *Supervisor) runTelemetry(ctx context.Context, transport Transport) error {
	ticker := time.NewTicker(s.cfg.TelemetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := sendEnvelope(ctx, transport, s.buildTelemetry()); err != nil {
			return fmt.Errorf("send telemetry: %w", err)
		}
		observability.RecordTelemetrySent()
		s.log.Debug().Msg("telemetry sent")
	}
}

func (s *Supervisor) buildTelemetry() *protocol.Telemetry {
	system := protocol.SystemBlock{Hostname: s.cfg.Hostname}

	if uptime, err := s.collab.System.Uptime(); err != nil {
		s.log.Warn().Err(err).Msg("uptime read failed")
	} else {
		system.Uptime = uptime
	}
	if temp, err := s.collab.System.CPUTemperature(); err != nil {
		s.log.Warn().Err(err).Msg("temperature read failed")
	} else {
		system.Temperature = temp
	}
	if memory, err := s.collab.System.MemoryUsage(); err != nil {
		s.log.Warn().Err(err).Msg("memory read failed")
	} else {
		system.Memory = protocol.MemoryStats{
			Total:       memory.Total,
			Free:        memory.Free,
			Available:   memory.Available,
			UsedPercent: memory.UsedPercent,
		}
	}

	status := s.collab.Servos.Status()
	env := protocol.NewTelemetry(system, protocol.ServoBlock{
		Positions:   wirePosition(status.Positions),
		Initialized: status.Initialized,
	})

	if s.collab.Audio != nil {
		env.Audio = &protocol.AudioBlock{
			Levels:    s.collab.Audio.ReadAllMicrophones(),
			Direction: s.collab.Audio.DetectDirection(),
		}
	}
	return env
}
