package push

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/PigSoilPlus/pigsoil-notify/types"
)

const (
	wsBackoffInitial = time.Second
	wsBackoffMax     = 30 * time.Second
)

// WebsocketTransport maintains a connection to the PigSoil+ push gateway and
// dispatches each JSON frame as a push payload. Lost connections are re-dialed
// with capped exponential backoff.
type WebsocketTransport struct {
	url string
	log *zap.SugaredLogger

	mu      sync.Mutex
	handler Handler
	cancel  context.CancelFunc
	done    chan struct{}
}

var _ Transport = (*WebsocketTransport)(nil)

// NewWebsocketTransport creates a transport for the given gateway URL.
func NewWebsocketTransport(url string, log *zap.SugaredLogger) *WebsocketTransport {
	return &WebsocketTransport{url: url, log: log}
}

// OnMessage registers the handler. The most recent registration wins.
func (t *WebsocketTransport) OnMessage(h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = h
}

// Start begins the dial/read loop until ctx is canceled or Close is called.
func (t *WebsocketTransport) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	if t.done != nil {
		t.mu.Unlock()
		cancel()
		return nil // already running; registration idempotence extends to Start
	}
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	go func() {
		defer close(done)
		t.run(runCtx)
	}()
	return nil
}

func (t *WebsocketTransport) run(ctx context.Context) {
	backoff := wsBackoffInitial
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.Dial(ctx, t.url, nil)
		if err != nil {
			t.log.Warnw("Push gateway dial failed",
				"url", t.url,
				"error", err,
				"retryIn", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff *= 2; backoff > wsBackoffMax {
				backoff = wsBackoffMax
			}
			continue
		}

		t.log.Infow("Connected to push gateway", "url", t.url)
		backoff = wsBackoffInitial
		t.readLoop(ctx, conn)
	}
}

func (t *WebsocketTransport) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close(websocket.StatusNormalClosure, "")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				t.log.Warnw("Push gateway connection lost", "error", err)
			}
			return
		}

		var msg types.PushMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.log.Warnw("Dropping malformed push frame",
				"error", err,
				"frameSize", len(data))
			continue
		}

		t.mu.Lock()
		handler := t.handler
		t.mu.Unlock()
		if handler != nil {
			handler(ctx, msg)
		}
	}
}

// Close stops the dial/read loop and waits for it to exit.
func (t *WebsocketTransport) Close() error {
	t.mu.Lock()
	cancel := t.cancel
	done := t.done
	t.cancel = nil
	t.done = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	return nil
}
