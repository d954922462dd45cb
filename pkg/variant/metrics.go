package variant

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation for an ObjectColumn,
// following pkg/dataobj/sections/generic/builder.go's *Metrics field and
// pkg/dataobj/consumer/flush.go's promauto.With(r) construction idiom.
type Metrics struct {
	insertsTotal      *prometheus.CounterVec
	promotionsTotal   prometheus.Counter
	rollbacksTotal    prometheus.Counter
	finalizeTotal     prometheus.Counter
	rows              prometheus.Gauge
	subcolumns        prometheus.Gauge
}

// NewMetrics registers and returns a fresh Metrics against reg. reg may be
// nil, in which case metrics are constructed but never registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		insertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "variant",
			Name:      "inserts_total",
			Help:      "Total number of TryInsert calls against an object column, by outcome.",
		}, []string{"outcome"}),
		promotionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "variant",
			Name:      "subcolumn_promotions_total",
			Help:      "Total number of subcolumn part promotions (least-common-type widenings).",
		}),
		rollbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "variant",
			Name:      "insert_rollbacks_total",
			Help:      "Total number of TryInsert calls that rolled back a partial row.",
		}),
		finalizeTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "variant",
			Name:      "finalize_total",
			Help:      "Total number of ObjectColumn.Finalize calls.",
		}),
		rows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "variant",
			Name:      "rows",
			Help:      "Current number of rows in the object column.",
		}),
		subcolumns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "variant",
			Name:      "subcolumns",
			Help:      "Current number of distinct subcolumn paths in the object column.",
		}),
	}
}

func (m *Metrics) observeInsert(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.insertsTotal.WithLabelValues("success").Inc()
	} else {
		m.insertsTotal.WithLabelValues("error").Inc()
	}
}

func (m *Metrics) observeRollback() {
	if m == nil {
		return
	}
	m.rollbacksTotal.Inc()
}

func (m *Metrics) observeFinalize() {
	if m == nil {
		return
	}
	m.finalizeTotal.Inc()
}

func (m *Metrics) setRows(n int) {
	if m == nil {
		return
	}
	m.rows.Set(float64(n))
}

func (m *Metrics) setSubcolumns(n int) {
	if m == nil {
		return
	}
	m.subcolumns.Set(float64(n))
}
