package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "viability", Name: "analyses_total", Help: "Completed per-student analysis passes",
	}, []string{"trigger"})
	AnalysisErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "viability", Name: "analysis_errors_total", Help: "Failed per-student analysis passes",
	}, []string{"trigger"})
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "viability", Name: "analysis_duration_seconds", Help: "Single-student analysis duration",
		Buckets: prometheus.DefBuckets,
	})
	RisksActivated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "viability", Name: "risks_activated_total", Help: "Viability risk records activated",
	})
	ConflictsDetected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "viability", Name: "conflicts_detected_total", Help: "Calendar conflicts detected by type",
	}, []string{"type"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "viability", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(AnalysesTotal, AnalysisErrors, AnalysisDuration, RisksActivated, ConflictsDetected, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
