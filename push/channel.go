package push

import (
	"context"
	"sync"

	"github.com/PigSoilPlus/pigsoil-notify/types"
)

// ChannelTransport is an in-process Transport. Tests and demos deliver
// payloads directly through Deliver.
type ChannelTransport struct {
	mu      sync.Mutex
	handler Handler
}

var _ Transport = (*ChannelTransport)(nil)

// NewChannelTransport creates an in-process transport with no handler bound.
func NewChannelTransport() *ChannelTransport {
	return &ChannelTransport{}
}

// OnMessage registers the handler. The most recent registration wins.
func (t *ChannelTransport) OnMessage(h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = h
}

// Start is a no-op; delivery happens synchronously through Deliver.
func (t *ChannelTransport) Start(_ context.Context) error { return nil }

// Close is a no-op.
func (t *ChannelTransport) Close() error { return nil }

// Deliver dispatches msg to the registered handler, if any.
func (t *ChannelTransport) Deliver(ctx context.Context, msg types.PushMessage) {
	t.mu.Lock()
	handler := t.handler
	t.mu.Unlock()

	if handler != nil {
		handler(ctx, msg)
	}
}
