// Package metrics exposes the engine's operational counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tiro_scheduler_sweep_runs_total",
		Help: "Number of scheduler sweep executions by pass.",
	}, []string{"pass"})

	ChatsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiro_chats_expired_total",
		Help: "Chats force-transitioned to under_review by the expiry pass.",
	})

	PaymentsReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiro_payments_released_total",
		Help: "Scheduled seller payments released by the payment pass.",
	})

	Purchases = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tiro_purchases_total",
		Help: "Successful product purchases.",
	})
)
