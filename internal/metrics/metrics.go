// Package metrics holds the Prometheus collectors shared by the storefront.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "etalase_catalog_mutations_total",
		Help: "Catalog mutations by operation.",
	}, []string{"op"})

	DiscountExpirations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etalase_discount_expirations_total",
		Help: "Discount timers that ran out and reverted a product price.",
	})

	TimerTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etalase_timer_ticks_total",
		Help: "Timer engine ticks.",
	})

	ActiveTimers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "etalase_active_timers",
		Help: "Products with a running discount countdown.",
	})

	CatalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "etalase_catalog_size",
		Help: "Products currently in the catalog.",
	})

	StorageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "etalase_storage_failures_total",
		Help: "Failed storage reads and writes by operation.",
	}, []string{"op"})

	LiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "etalase_live_clients",
		Help: "Connected live-update websocket clients.",
	})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "etalase_admin_login_attempts_total",
		Help: "Admin login attempts by result.",
	}, []string{"result"})
)
