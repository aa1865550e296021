package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quotesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "merx_promotion_quotes_total",
		Help: "Number of cart quotes computed.",
	})
	quotesWithoutCampaign = promauto.NewCounter(prometheus.CounterOpts{
		Name: "merx_promotion_quotes_without_campaign_total",
		Help: "Quotes computed while no campaign was active or eligible.",
	})
	discountGrantedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "merx_promotion_discount_granted_total",
		Help: "Accumulated discount amount granted across all quotes.",
	})
)
