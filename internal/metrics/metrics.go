// Package metrics records per-run counters and writes them in the Prometheus
// text format for a node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Document results.
const (
	ResultWritten   = "written"
	ResultUnchanged = "unchanged"
	ResultDryRun    = "dry_run"
	ResultFailed    = "failed"
)

// Recorder collects run metrics. A nil *Recorder discards everything.
type Recorder struct {
	reg       *prometheus.Registry
	documents *prometheus.CounterVec
	tags      prometheus.Counter
	cacheHits prometheus.Counter
	duration  prometheus.Gauge
	lastRun   prometheus.Gauge

	start time.Time
	now   func() time.Time
}

// New returns a recorder on its own registry.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nptag_documents_total",
			Help: "Documents processed, by result.",
		}, []string{"result"}),
		tags: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nptag_tags_total",
			Help: "Tags derived across all documents.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nptag_phrase_cache_hits_total",
			Help: "Sentences whose noun phrases came from the cache.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nptag_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nptag_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
		now: time.Now,
	}
	r.reg.MustRegister(r.documents, r.tags, r.cacheHits, r.duration, r.lastRun)

	for _, res := range []string{ResultWritten, ResultUnchanged, ResultDryRun, ResultFailed} {
		r.documents.WithLabelValues(res)
	}
	r.start = r.now()
	return r
}

// Document counts one processed document and its tags.
func (r *Recorder) Document(result string, tags int) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(result).Inc()
	r.tags.Add(float64(tags))
}

// CacheHits adds n phrase cache hits.
func (r *Recorder) CacheHits(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.cacheHits.Add(float64(n))
}

// Finish records the run duration and completion time.
func (r *Recorder) Finish() {
	if r == nil {
		return
	}
	end := r.now()
	r.duration.Set(end.Sub(r.start).Seconds())
	r.lastRun.Set(float64(end.Unix()))
}

// WriteFile atomically writes the metrics to path.
func (r *Recorder) WriteFile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
