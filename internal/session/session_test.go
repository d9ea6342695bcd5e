package session

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/rs/zerolog"

	"github.com/danmuck/edgecam/internal/hardware"
	"github.com/danmuck/edgecam/internal/protocol"
)

var errPeerGone = errors.New("peer gone")

// fakeTransport is an in-memory Transport double. Sends are recorded;
// inbound payloads are fed through a channel; Inject a close to simulate
// the remote side dropping the connection.
type fakeTransport struct {
	mu       sync.Mutex
	sent     [][]byte
	sendErr  error
	inbound  chan []byte
	closed   chan struct{}
	onceDrop sync.Once

	closeMu    sync.Mutex
	closeCalls int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (t *fakeTransport) Send(ctx context.Context, data []byte) error {
	select {
	case <-t.closed:
		return errPeerGone
	default:
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sendErr != nil {
		return t.sendErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	t.sent = append(t.sent, buf)
	return nil
}

func (t *fakeTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.closed:
		return nil, errPeerGone
	case data := <-t.inbound:
		return data, nil
	}
}

func (t *fakeTransport) Close() error {
	t.closeMu.Lock()
	t.closeCalls++
	t.closeMu.Unlock()
	t.drop()
	return nil
}

// drop simulates the remote peer severing the connection.
func (t *fakeTransport) drop() {
	t.onceDrop.Do(func() { close(t.closed) })
}

func (t *fakeTransport) failSends(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendErr = err
}

func (t *fakeTransport) sentMessages() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.sent))
	copy(out, t.sent)
	return out
}

func (t *fakeTransport) sentByType(messageType protocol.Type) []protocol.Message {
	var out []protocol.Message
	for _, data := range t.sentMessages() {
		msg, err := protocol.Decode(data)
		if err != nil {
			continue
		}
		if msg.MessageType() == messageType {
			out = append(out, msg)
		}
	}
	return out
}

func (t *fakeTransport) closeCount() int {
	t.closeMu.Lock()
	defer t.closeMu.Unlock()
	return t.closeCalls
}

// scriptedCamera yields a fixed number of frames, then reports unavailable.
type scriptedCamera struct {
	mu     sync.Mutex
	frames int
}

func (c *scriptedCamera) ColorFrame() (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frames <= 0 {
		return nil, false
	}
	c.frames--
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), true
}

func (c *scriptedCamera) Info() hardware.CameraInfo {
	return hardware.CameraInfo{Model: "test-cam", Serial: "t-0"}
}

func (c *scriptedCamera) Width() int  { return 8 }
func (c *scriptedCamera) Height() int { return 8 }

type stubMetrics struct{}

func (stubMetrics) Uptime() (float64, error)                  { return 120, nil }
func (stubMetrics) CPUTemperature() (float64, error)          { return 48.5, nil }
func (stubMetrics) MemoryUsage() (hardware.MemoryStats, error) {
	return hardware.MemoryStats{Total: 1 << 30, Free: 1 << 28, Available: 1 << 29, UsedPercent: 50}, nil
}

func testCollaborators(camera hardware.CameraSource) Collaborators {
	return Collaborators{
		Camera: camera,
		Servos: hardware.NewSimServos(),
		System: stubMetrics{},
	}
}

func testSupervisor(cfg Config, collab Collaborators) *Supervisor {
	return NewSupervisor(cfg, collab, zerolog.Nop())
}
