package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/PigSoilPlus/pigsoil-notify/types"
)

// RedisTransport subscribes to a device-scoped Redis Pub/Sub channel
// (pigsoil:push:{deviceID}) and dispatches each JSON payload to the handler.
// Malformed payloads are logged and skipped.
type RedisTransport struct {
	client  redis.UniversalClient
	channel string
	log     *zap.SugaredLogger

	mu      sync.Mutex
	handler Handler
	pubsub  *redis.PubSub
	cancel  context.CancelFunc
}

var _ Transport = (*RedisTransport)(nil)

// ChannelForDevice returns the Pub/Sub channel name for a device id.
func ChannelForDevice(deviceID string) string {
	return fmt.Sprintf("pigsoil:push:%s", deviceID)
}

// NewRedisTransport creates a transport over an existing Redis client.
func NewRedisTransport(client redis.UniversalClient, channel string, log *zap.SugaredLogger) *RedisTransport {
	return &RedisTransport{
		client:  client,
		channel: channel,
		log:     log,
	}
}

// OnMessage registers the handler. The most recent registration wins.
func (t *RedisTransport) OnMessage(h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = h
}

// Start subscribes and consumes messages until ctx is canceled or Close is
// called.
func (t *RedisTransport) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	if t.pubsub != nil {
		t.mu.Unlock()
		cancel()
		return fmt.Errorf("redis push transport already started")
	}
	pubsub := t.client.Subscribe(runCtx, t.channel)
	t.pubsub = pubsub
	t.cancel = cancel
	t.mu.Unlock()

	go t.consume(runCtx, pubsub)
	return nil
}

func (t *RedisTransport) consume(ctx context.Context, pubsub *redis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				t.log.Infow("Push subscription channel closed", "channel", t.channel)
				return
			}
			t.dispatch(ctx, []byte(msg.Payload))
		case <-ctx.Done():
			return
		}
	}
}

func (t *RedisTransport) dispatch(ctx context.Context, payload []byte) {
	var msg types.PushMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.log.Warnw("Dropping malformed push payload",
			"channel", t.channel,
			"error", err,
			"payloadSize", len(payload))
		return
	}

	t.mu.Lock()
	handler := t.handler
	t.mu.Unlock()

	if handler == nil {
		t.log.Debugw("Push payload arrived before handler registration", "channel", t.channel)
		return
	}
	handler(ctx, msg)
}

// Close cancels consumption and closes the subscription.
func (t *RedisTransport) Close() error {
	t.mu.Lock()
	pubsub := t.pubsub
	cancel := t.cancel
	t.pubsub = nil
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if pubsub != nil {
		if err := pubsub.Close(); err != nil {
			return fmt.Errorf("failed to close push subscription: %w", err)
		}
	}
	return nil
}
