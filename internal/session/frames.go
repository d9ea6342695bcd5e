package session

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"time"

	"github.com/danmuck/edgecam/internal/observability"
	"github.com/danmuck/edgecam/internal/protocol"
)

// Meters per depth unit of the reference camera.
const depthScaleMeters = 0.001

// runFrames is the frame pipeline task: poll the camera, throttle to every
// Nth frame, encode, send. An unavailable frame is a transient condition;
// an encode failure skips the frame; a send failure ends the task and with
// it the session.
func (s *Supervisor) runFrames(ctx context.Context, transport Transport) error {
	var (
		frameCount uint64
		lastSentAt time.Time
	)
	for {
		if err := sleepCtx(ctx, s.cfg.FramePollDelay); err != nil {
			return err
		}

		img, ok := s.collab.Camera.ColorFrame()
		if !ok {
			s.log.Warn().Msg("camera frame unavailable")
			if err := sleepCtx(ctx, s.cfg.FrameRetryDelay); err != nil {
				return err
			}
			continue
		}

		frameCount++
		if frameCount%uint64(s.cfg.SendEveryNFrames) != 0 {
			continue
		}

		now := time.Now()
		fps := s.cfg.NominalFPS
		if !lastSentAt.IsZero() {
			if dt := now.Sub(lastSentAt).Seconds(); dt > 0 {
				fps = 1.0 / dt
			}
		}

		env, err := s.buildFrame(img, frameCount, fps)
		if err != nil {
			s.log.Error().Err(err).Uint64("frame_id", frameCount).Msg("frame encode failed")
			if err := sleepCtx(ctx, s.cfg.FrameErrorDelay); err != nil {
				return err
			}
			continue
		}

		if err := sendEnvelope(ctx, transport, env); err != nil {
			return fmt.Errorf("send frame %d: %w", frameCount, err)
		}
		lastSentAt = now
		observability.RecordFrameSent()
		s.log.Debug().Uint64("frame_id", frameCount).Float64("fps", fps).Msg("frame sent")
	}
}

func (s *Supervisor) buildFrame(img image.Image, frameID uint64, fps float64) (*protocol.Frame, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.cfg.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	info := s.collab.Camera.Info()
	env := protocol.NewFrame(frameID, buf.Bytes(), protocol.CameraInfo{
		Model:      info.Model,
		Serial:     info.Serial,
		Resolution: [2]int{s.collab.Camera.Width(), s.collab.Camera.Height()},
	}, depthScaleMeters, fps)

	if s.collab.Depth != nil {
		if depth, ok := s.collab.Depth.DepthFrame(); ok {
			var depthBuf bytes.Buffer
			if err := png.Encode(&depthBuf, depth); err != nil {
				return nil, fmt.Errorf("encode depth png: %w", err)
			}
			env.DepthData = depthBuf.Bytes()
		}
	}
	return env, nil
}
