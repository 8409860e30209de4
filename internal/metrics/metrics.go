// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tipster_bets_placed_total",
		Help: "Bets accepted by the ledger.",
	})
	CoinsStaked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tipster_coins_staked_total",
		Help: "COINS debited from balances by placed bets.",
	})
	BetsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tipster_bets_settled_total",
		Help: "Bets resolved by an administrator, by outcome.",
	}, []string{"outcome"})
	CoinsPaidOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tipster_coins_paid_out_total",
		Help: "COINS credited to balances by won bets.",
	})
	LedgerRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tipster_ledger_rejections_total",
		Help: "Ledger operations refused, by reason.",
	}, []string{"reason"})
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tipster_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records request latency under the matched route template
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
