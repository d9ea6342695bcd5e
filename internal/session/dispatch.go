package session

import (
	"context"
	"fmt"

	"github.com/danmuck/edgecam/internal/hardware"
	"github.com/danmuck/edgecam/internal/observability"
	"github.com/danmuck/edgecam/internal/protocol"
)

// runDispatch is the sole reader of the transport. It decodes each inbound
// envelope and routes it by type. Malformed payloads are logged and
// skipped; a receive failure ends the task and with it the session.
func (s *Supervisor) runDispatch(ctx context.Context, transport Transport) error {
	for {
		data, err := transport.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("receive: %w", err)
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			observability.RecordDecodeFailure()
			s.log.Warn().Err(err).Int("bytes", len(data)).Msg("discarding malformed inbound payload")
			continue
		}
		observability.RecordInbound(string(msg.MessageType()))

		switch m := msg.(type) {
		case *protocol.Control:
			if err := s.handleControl(ctx, transport, m); err != nil {
				return err
			}
		case *protocol.Ping:
			if err := sendEnvelope(ctx, transport, protocol.NewPong()); err != nil {
				return fmt.Errorf("send pong: %w", err)
			}
		case *protocol.Pong:
			s.log.Debug().Msg("pong received")
		case *protocol.DetectionResult:
			s.log.Debug().
				Uint64("frame_id", m.FrameID).
				Int("detections", len(m.Detections)).
				Msg("detection result received")
		case *protocol.Welcome:
			s.log.Info().Msg("controller acknowledged session")
		default:
			s.log.Warn().
				Str("type", string(msg.MessageType())).
				Msg("ignoring unrecognized message type")
		}
	}
}

func (s *Supervisor) handleControl(ctx context.Context, transport Transport, ctrl *protocol.Control) error {
	var position hardware.Position
	switch ctrl.Action {
	case protocol.ActionMoveServos:
		position = s.collab.Servos.SetPosition(ctrl.Params.Pan, ctrl.Params.Tilt, ctrl.Params.Roll)
	case protocol.ActionCenterServos:
		position = s.collab.Servos.Center()
	default:
		s.log.Warn().Str("action", ctrl.Action).Msg("ignoring unknown control action")
		return nil
	}

	s.log.Info().
		Str("action", ctrl.Action).
		Float64("pan", position.Pan).
		Float64("tilt", position.Tilt).
		Msg("servo command applied")

	response := protocol.NewControlResponse(ctrl.Action, true, wirePosition(position))
	if err := sendEnvelope(ctx, transport, response); err != nil {
		return fmt.Errorf("send control response: %w", err)
	}
	return nil
}

func wirePosition(p hardware.Position) protocol.Position {
	return protocol.Position{Pan: p.Pan, Tilt: p.Tilt, Roll: p.Roll}
}
