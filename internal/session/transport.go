package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
)

var ErrTransportClosed = errors.New("session: transport closed")

// Transport is one duplex message connection to the controller. Send may be
// called from multiple tasks; implementations serialize writes so one
// logical send completes fully before the next begins. Receive has exactly
// one caller, the inbound dispatcher. Close is idempotent.
type Transport interface {
	Send(ctx context.Context, data []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// Dialer opens a fresh Transport for each session attempt.
type Dialer interface {
	Dial(ctx context.Context) (Transport, error)
}

// WebsocketDialer dials the controller's websocket endpoint.
type WebsocketDialer struct {
	url             string
	connectTimeout  time.Duration
	closeTimeout    time.Duration
	maxMessageBytes int64
}

func NewWebsocketDialer(url string, cfg Config) *WebsocketDialer {
	cfg = cfg.WithDefaults()
	return &WebsocketDialer{
		url:             url,
		connectTimeout:  cfg.ConnectTimeout,
		closeTimeout:    cfg.CloseTimeout,
		maxMessageBytes: cfg.MaxMessageBytes,
	}
}

func (d *WebsocketDialer) Dial(ctx context.Context) (Transport, error) {
	dialCtx, cancel := context.WithTimeout(ctx, d.connectTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("session: dial %s: %w", d.url, err)
	}
	conn.SetReadLimit(d.maxMessageBytes)

	return &wsTransport{conn: conn, closeTimeout: d.closeTimeout}, nil
}

// wsTransport adapts one websocket connection to the Transport contract.
// Envelopes travel as text messages, one envelope per message.
type wsTransport struct {
	conn         *websocket.Conn
	closeTimeout time.Duration

	sendMu    sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func (t *wsTransport) Send(ctx context.Context, data []byte) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	if err := t.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("session: send: %w", err)
	}
	return nil
}

func (t *wsTransport) Receive(ctx context.Context) ([]byte, error) {
	_, data, err := t.conn.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: receive: %w", err)
	}
	return data, nil
}

// Close attempts a graceful close handshake, bounded by the close timeout
// so a hung peer cannot delay teardown, then severs the connection.
func (t *wsTransport) Close() error {
	t.closeOnce.Do(func() {
		done := make(chan error, 1)
		go func() {
			done <- t.conn.Close(websocket.StatusNormalClosure, "session ended")
		}()

		timer := time.NewTimer(t.closeTimeout)
		defer timer.Stop()
		select {
		case err := <-done:
			t.closeErr = err
		case <-timer.C:
			t.closeErr = t.conn.CloseNow()
		}
	})
	return t.closeErr
}
