package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ticks_total", Help: "Count of market ticks ingested"},
		[]string{"symbol"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Signals emitted by strategies"},
		[]string{"strategy", "symbol"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders submitted"},
		[]string{"symbol", "side"},
	)
	FillsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fills_total", Help: "Fills produced by the execution venue"},
		[]string{"symbol", "side"},
	)
	RiskBlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "risk_blocks_total", Help: "Orders blocked by the risk manager"},
		[]string{"code"},
	)
	EquityGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "account_equity", Help: "Current paper account equity"},
	)
)

func init() {
	prometheus.MustRegister(TicksTotal, SignalsTotal, OrdersTotal, FillsTotal, RiskBlocksTotal, EquityGauge)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
