package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons recorded on the dropped-payload counter.
const (
	dropReasonNoUser         = "no_current_user"
	dropReasonNoBody         = "no_notification_body"
	dropReasonWrongRecipient = "wrong_recipient"
	dropReasonStorage        = "storage_write_failed"
)

var (
	savedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pigsoil_notifications_saved_total",
		Help: "Total notification records created or upserted",
	})
	droppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pigsoil_notifications_dropped_total",
		Help: "Inbound payloads or writes dropped before reaching storage",
	}, []string{"reason"})
	evictedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pigsoil_notifications_evicted_total",
		Help: "Records evicted by the per-user retention cap",
	})
	displayedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pigsoil_notifications_displayed_total",
		Help: "System notifications displayed for accepted pushes",
	})
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pigsoil_notification_store_mutations_total",
		Help: "Store mutations by operation",
	}, []string{"operation"})
)
