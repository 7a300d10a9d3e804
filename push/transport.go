// Package push provides the inbound delivery channel for notification
// payloads. Transports deliver at-least-once and in no guaranteed order; the
// notification service's idempotent upsert absorbs redelivery.
package push

import (
	"context"

	"github.com/PigSoilPlus/pigsoil-notify/types"
)

// Handler consumes one inbound push payload.
type Handler func(ctx context.Context, msg types.PushMessage)

// Transport is a subscription capability for inbound push payloads.
type Transport interface {
	// OnMessage registers the handler invoked for each inbound payload.
	// Registration is single-slot: the most recent handler wins, so repeated
	// registration can never fan one payload out twice.
	OnMessage(h Handler)

	// Start begins delivering messages until ctx is canceled.
	Start(ctx context.Context) error

	// Close tears the transport down. Safe to call more than once.
	Close() error
}
