package session

import (
	"context"
	"fmt"
	"time"

	"github.com/danmuck/edgecam/internal/observability"
	"github.com/danmuck/edgecam/internal/protocol"
)

// runKeepalive pings the controller on a fixed interval, independent of
// frame and telemetry traffic, so an otherwise idle transport is not torn
// down by either side. A send failure ends the task.
func (s *Supervisor) runKeepalive(ctx context.Context, transport Transport) error {
	ticker := time.NewTicker(s.cfg.KeepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := sendEnvelope(ctx, transport, protocol.NewPing()); err != nil {
			return fmt.Errorf("send keepalive ping: %w", err)
		}
		observability.RecordKeepalivePing()
		s.log.Debug().Msg("keepalive ping sent")
	}
}
