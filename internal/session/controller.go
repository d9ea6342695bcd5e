package session

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danmuck/edgecam/internal/observability"
)

// ErrAttemptsExhausted is the terminal condition of the reconnection
// controller: consecutive attempts since the last successful handshake
// exceeded the configured maximum. Operator intervention required.
var ErrAttemptsExhausted = errors.New("session: reconnect attempts exhausted")

// Controller drives repeated session attempts with bounded, jittered
// exponential backoff until stopped or exhausted.
type Controller struct {
	cfg        Config
	dialer     Dialer
	supervisor *Supervisor
	log        zerolog.Logger
	rng        *rand.Rand
}

func NewController(cfg Config, dialer Dialer, supervisor *Supervisor, log zerolog.Logger) *Controller {
	return &Controller{
		cfg:        cfg.WithDefaults(),
		dialer:     dialer,
		supervisor: supervisor,
		log:        log,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run loops connect->session->backoff until the context is cancelled or
// attempts are exhausted. The attempt counter only counts consecutive
// attempts since the last successful Hello handshake: it resets to 1 as
// soon as a handshake lands.
func (c *Controller) Run(ctx context.Context) error {
	attempt := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		attemptID := uuid.NewString()
		log := c.log.With().Int("attempt", attempt).Str("attempt_id", attemptID).Logger()
		observability.RecordReconnectAttempt()

		transport, err := c.dialer.Dial(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("connect failed")
		} else {
			outcome := c.supervisor.Run(ctx, transport)
			if outcome.HandshakeOK {
				attempt = 1
			}
			log.Info().
				Bool("handshake_ok", outcome.HandshakeOK).
				Str("task", outcome.Task).
				Err(outcome.Err).
				Msg("session attempt finished")
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		attempt++
		if attempt > c.cfg.MaxAttempts {
			c.log.Error().
				Int("max_attempts", c.cfg.MaxAttempts).
				Msg("reconnect attempts exhausted, giving up")
			return ErrAttemptsExhausted
		}

		delay := NextDelay(c.cfg.Backoff, attempt, c.rng)
		log.Info().
			Dur("delay", delay).
			Int("next_attempt", attempt).
			Int("max_attempts", c.cfg.MaxAttempts).
			Msg("reconnecting after backoff")
		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
	}
}
