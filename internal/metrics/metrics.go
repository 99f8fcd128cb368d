package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg              *prometheus.Registry
	OrdersCommitted  prometheus.Counter
	OrdersFailed     prometheus.Counter
	NotifyFailed     prometheus.Counter
	StaleSelections  prometheus.Counter
	StatusChanges    *prometheus.CounterVec
	OrdersDeleted    prometheus.Counter
	DraftsExpired    prometheus.Counter
	InsertLatencySec prometheus.Histogram
	Backend          *prometheus.GaugeVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	committed := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderly_orders_committed_total"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderly_orders_failed_total"})
	notifyFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderly_notify_failed_total"})
	stale := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderly_stale_selections_total"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orderly_status_changes_total"}, []string{"status"})
	deleted := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderly_orders_deleted_total"})
	expired := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderly_drafts_expired_total"})
	insertLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderly_order_insert_seconds",
		Buckets: prometheus.DefBuckets,
	})
	backend := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "orderly_store_backend"}, []string{"kind"})

	r.MustRegister(committed, failed, notifyFailed, stale, statusChanges, deleted, expired, insertLatency, backend)
	return &Registry{
		reg:              r,
		OrdersCommitted:  committed,
		OrdersFailed:     failed,
		NotifyFailed:     notifyFailed,
		StaleSelections:  stale,
		StatusChanges:    statusChanges,
		OrdersDeleted:    deleted,
		DraftsExpired:    expired,
		InsertLatencySec: insertLatency,
		Backend:          backend,
	}
}

// ActiveDrafts exposes a live draft count read at scrape time.
func (r *Registry) ActiveDrafts(fn func() int) {
	r.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: "orderly_drafts_active"},
		func() float64 { return float64(fn()) }))
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
