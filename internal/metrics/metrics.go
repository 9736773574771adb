// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// QueryRecorder はデータ取得クエリのメトリクス収集インターフェース。
// サービス層から利用する。
type QueryRecorder interface {
	RecordQuery(entity string, outcome string)
}

// クエリ結果のoutcomeラベル値。
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	queriesTotal    *prometheus.CounterVec
}

// NewCollector はメトリクスを登録済みのCollectorを生成する。
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTPリクエストの総数",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_queries_total",
			Help: "分析データ取得クエリの総数",
		}, []string{"entity", "outcome"}),
	}

	registry.MustRegister(c.requestsTotal, c.requestDuration, c.queriesTotal)

	return c
}

// RecordQuery はデータ取得クエリの結果を記録する。
func (c *Collector) RecordQuery(entity string, outcome string) {
	c.queriesTotal.WithLabelValues(entity, outcome).Inc()
}

// Handler は/metricsエンドポイント用のHTTPハンドラーを返す。
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// metricsRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type metricsRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (mr *metricsRecorder) WriteHeader(code int) {
	mr.statusCode = code
	mr.ResponseWriter.WriteHeader(code)
}

// Middleware はリクエスト数と処理時間を記録するミドルウェアを返す。
// エンドポイントはすべて固定パスのため、パスラベルにはURLパスをそのまま使う。
func (c *Collector) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			c.requestsTotal.WithLabelValues(
				r.Method, r.URL.Path, strconv.Itoa(rec.statusCode),
			).Inc()
			c.requestDuration.WithLabelValues(
				r.Method, r.URL.Path,
			).Observe(time.Since(start).Seconds())
		})
	}
}

// compile-time interface check
var _ QueryRecorder = (*Collector)(nil)
