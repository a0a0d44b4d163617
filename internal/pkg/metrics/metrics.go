package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約操作の総数（operation: create/update/status, result: success/rejected/error）
	ReservationsTotal *prometheus.CounterVec

	// 現在着席中のテーブル数
	OccupiedTables prometheus.Gauge

	// 日付別予約リストキャッシュの結果（result: hit/miss）
	ReservationCacheTotal *prometheus.CounterVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation operations",
			},
			[]string{"operation", "result"},
		),
		OccupiedTables: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "occupied_tables",
				Help: "Current number of occupied tables",
			},
		),
		ReservationCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_cache_total",
				Help: "Reservation list cache lookups by result",
			},
			[]string{"result"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.OccupiedTables,
		m.ReservationCacheTotal,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
