package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	loadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progresso",
		Subsystem: "loader",
		Name:      "loads_total",
		Help:      "Number of spreadsheet loads by outcome.",
	}, []string{"outcome"})

	loadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "progresso",
		Subsystem: "loader",
		Name:      "load_duration_seconds",
		Help:      "Time spent reading and normalizing the spreadsheet.",
		Buckets:   prometheus.DefBuckets,
	})

	loadedRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "progresso",
		Subsystem: "loader",
		Name:      "loaded_rows",
		Help:      "Number of activity rows in the most recent load.",
	})

	cacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "progresso",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Table cache lookups by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(loadsTotal, loadDuration, loadedRows, cacheRequests)
}

// RecordLoad 记录一次加载的结果、行数与耗时
func RecordLoad(outcome string, rows int, elapsed time.Duration) {
	loadsTotal.WithLabelValues(outcome).Inc()
	loadDuration.Observe(elapsed.Seconds())
	if outcome == "ok" {
		loadedRows.Set(float64(rows))
	}
}

// RecordCache 记录缓存命中或未命中
func RecordCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheRequests.WithLabelValues(result).Inc()
}

// Handler Prometheus 抓取端点
func Handler() http.Handler {
	return promhttp.Handler()
}
