package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liqwatch_refreshes_total",
		Help: "Dashboard refresh attempts by outcome",
	}, []string{"result", "trigger"})

	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "liqwatch_upstream_latency_seconds",
		Help:    "Price API latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	LimiterCallsInWindow = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "liqwatch_limiter_calls_in_window",
		Help: "Price API calls counted in the current limiter window",
	})

	MarkPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "liqwatch_mark_price",
		Help: "Last fetched mark price",
	})

	LiquidationPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "liqwatch_liquidation_price",
		Help: "Last computed liquidation price",
	})

	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "liqwatch_http_latency_seconds",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "liqwatch_stream_clients",
		Help: "Connected websocket dashboard clients",
	})
)
