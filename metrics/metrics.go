// Package metrics exposes storefront counters to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Orders created through checkout.",
	})

	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_transitions_total",
		Help: "Order status changes by target status and outcome.",
	}, []string{"status", "outcome"})

	SellersSuspended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_sellers_suspended_total",
		Help: "Sellers suspended after reaching the delivered order threshold.",
	})

	ProductUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_product_uploads_total",
		Help: "Product creation attempts by outcome.",
	}, []string{"outcome"})

	TxRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_tx_retries_total",
		Help: "Database transactions retried after serialization failures.",
	})

	GrossMerchandise = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_gross_merchandise_total",
		Help: "Sum of order subtotals at checkout, in taka.",
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
)

// Middleware records request latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
