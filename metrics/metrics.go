// Package metrics, sorgu çalıştırmalarını Prometheus metriklerine kaydeder.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector, sorgu süresi histogramını ve sorgu/hata sayaçlarını tutar.
type Collector struct {
	duration *prometheus.HistogramVec
	queries  *prometheus.CounterVec
	inflight *prometheus.GaugeVec
}

// New, metrikleri verilen registerer'a kaydeder. reg nil ise
// prometheus.DefaultRegisterer kullanılır. Aynı registerer'a ikinci kez
// kayıt promauto tarafından panic ile sonuçlanır; Collector'ı bir kez
// oluşturup paylaşın.
func New(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "sqlquery"
	}
	f := promauto.With(reg)

	return &Collector{
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Duration of executed SELECT statements",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"dialect", "mode"},
		),
		queries: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of executed SELECT statements by outcome",
			},
			[]string{"dialect", "mode", "outcome"},
		),
		inflight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queries_in_flight",
				Help:      "Number of statements currently executing",
			},
			[]string{"dialect"},
		),
	}
}

// Outcome değerleri.
const (
	OutcomeOK      = "ok"
	OutcomeNoRows  = "no_rows"
	OutcomeError   = "error"
	OutcomeMapping = "mapping_error"
)

// Start, bir çalıştırmanın başladığını kaydeder ve bitişte çağrılacak
// fonksiyonu döndürür.
func (c *Collector) Start(dialect string) func() {
	if c == nil {
		return func() {}
	}
	g := c.inflight.WithLabelValues(dialect)
	g.Inc()
	return g.Dec
}

// Observe, tamamlanan bir çalıştırmayı kaydeder.
func (c *Collector) Observe(dialect string, async bool, d time.Duration, outcome string) {
	if c == nil {
		return
	}
	mode := "sync"
	if async {
		mode = "async"
	}
	c.duration.WithLabelValues(dialect, mode).Observe(d.Seconds())
	c.queries.WithLabelValues(dialect, mode, outcome).Inc()
}
