package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "merx_sale_checkouts_total",
		Help: "Total number of completed checkouts.",
	})
	checkoutFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "merx_sale_checkout_failures_total",
		Help: "Total number of checkouts rejected or failed.",
	})
	revenueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "merx_sale_revenue_total",
		Help: "Accumulated payable amount across completed sales.",
	})
)
