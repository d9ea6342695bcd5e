package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/edgecam/internal/hardware"
	"github.com/danmuck/edgecam/internal/observability"
	"github.com/danmuck/edgecam/internal/protocol"
)

// Collaborators are the external capabilities one session streams from and
// acts on. Depth and Audio are optional and may be nil; they are resolved
// here once, never probed per call.
type Collaborators struct {
	Camera hardware.CameraSource
	Depth  hardware.DepthSource
	Servos hardware.ServoActuator
	Audio  hardware.AudioSensor
	System hardware.SystemMetrics
}

// Outcome describes how one session attempt ended.
type Outcome struct {
	// HandshakeOK reports whether the Hello envelope reached the wire.
	// The reconnect attempt counter resets only on a true value.
	HandshakeOK bool
	// Task names the activity whose exit ended the session.
	Task string
	Err  error
}

const taskHandshake = "handshake"

// Supervisor owns the transport for one session attempt and the four tasks
// multiplexed over it.
type Supervisor struct {
	cfg    Config
	collab Collaborators
	log    zerolog.Logger
}

func NewSupervisor(cfg Config, collab Collaborators, log zerolog.Logger) *Supervisor {
	return &Supervisor{
		cfg:    cfg.WithDefaults(),
		collab: collab,
		log:    log,
	}
}

type taskExit struct {
	name string
	err  error
}

// Run drives one session over transport: handshake, four concurrent tasks,
// first-exit-wins teardown. The transport is closed exactly once before
// returning, whatever ended the session. Any task failure is fatal to the
// session, never to the caller.
func (s *Supervisor) Run(ctx context.Context, transport Transport) Outcome {
	startedAt := time.Now()
	defer func() {
		if err := transport.Close(); err != nil {
			s.log.Debug().Err(err).Msg("transport close")
		}
	}()

	if err := s.sendHello(ctx, transport); err != nil {
		s.log.Error().Err(err).Msg("handshake failed")
		observability.RecordSessionEnded(taskHandshake, 0)
		return Outcome{Task: taskHandshake, Err: err}
	}
	s.log.Info().
		Str("client", s.cfg.ClientName).
		Bool("simulation", s.cfg.SimulationMode).
		Msg("session established")

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := []struct {
		name string
		run  func(context.Context, Transport) error
	}{
		{"frames", s.runFrames},
		{"telemetry", s.runTelemetry},
		{"dispatch", s.runDispatch},
		{"keepalive", s.runKeepalive},
	}

	exits := make(chan taskExit, len(tasks))
	for _, task := range tasks {
		go func(name string, run func(context.Context, Transport) error) {
			exits <- taskExit{name: name, err: run(taskCtx, transport)}
		}(task.name, task.run)
	}

	first := <-exits
	cancel()
	s.awaitStragglers(exits, len(tasks)-1)

	lifetime := time.Since(startedAt)
	event := s.log.Info()
	if first.err != nil && ctx.Err() == nil {
		event = s.log.Warn()
	}
	event.
		Str("task", first.name).
		Err(first.err).
		Dur("lifetime", lifetime).
		Msg("session ended")
	observability.RecordSessionEnded(first.name, lifetime)

	return Outcome{HandshakeOK: true, Task: first.name, Err: first.err}
}

// awaitStragglers drains the remaining task exits, bounded by the grace
// period so a task stuck mid-teardown cannot block transport closure.
func (s *Supervisor) awaitStragglers(exits <-chan taskExit, remaining int) {
	grace := time.NewTimer(s.cfg.GracePeriod)
	defer grace.Stop()
	for remaining > 0 {
		select {
		case <-exits:
			remaining--
		case <-grace.C:
			s.log.Warn().Int("stragglers", remaining).Msg("teardown grace period expired")
			return
		}
	}
}

func (s *Supervisor) sendHello(ctx context.Context, transport Transport) error {
	helloCtx, cancel := context.WithTimeout(ctx, s.cfg.HandshakeTimeout)
	defer cancel()
	hello := protocol.NewHello(s.cfg.ClientName, s.cfg.Hostname, s.cfg.SimulationMode)
	if err := sendEnvelope(helloCtx, transport, hello); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}
	return nil
}

func sendEnvelope(ctx context.Context, transport Transport, msg protocol.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	return transport.Send(ctx, data)
}

// sleepCtx waits d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
