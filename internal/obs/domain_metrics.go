package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersTotal counts submitted orders by type and outcome.
	OrdersTotal *prometheus.CounterVec
	// DealsAppliedTotal counts promotion applications by rule name.
	DealsAppliedTotal *prometheus.CounterVec
	// DiscountAmount accumulates discount value granted, by source (auto or manual).
	DiscountAmount *prometheus.CounterVec
	// OrderSyncTotal counts back office sync attempts by outcome.
	OrderSyncTotal *prometheus.CounterVec
	// OrderSyncLatency records sync push latency in milliseconds.
	OrderSyncLatency *prometheus.HistogramVec
	// PricingComputeDuration records cart pricing computation latency in milliseconds.
	PricingComputeDuration prometheus.Histogram
	// CartRecomputeTotal counts cart summary recomputations.
	CartRecomputeTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_total",
			Help:      "Count of order submissions by type and result.",
		}, []string{"order_type", "result"})
		DealsAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deals_applied_total",
			Help:      "Count of promotion rule applications by rule name.",
		}, []string{"rule"})
		DiscountAmount = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_amount_total",
			Help:      "Total discount value granted, by source.",
		}, []string{"source"})
		OrderSyncTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_sync_total",
			Help:      "Count of back office sync attempts by outcome.",
		}, []string{"result"})
		OrderSyncLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_sync_duration_ms",
			Help:      "Latency of back office sync pushes in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"result"})
		PricingComputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_compute_duration_ms",
			Help:      "Latency of cart pricing computations in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		})
		CartRecomputeTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_recompute_total",
			Help:      "Total number of cart summary recomputations.",
		})

		mustRegisterCollector(reg, OrdersTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrdersTotal = v
			}
		})
		mustRegisterCollector(reg, DealsAppliedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DealsAppliedTotal = v
			}
		})
		mustRegisterCollector(reg, DiscountAmount, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DiscountAmount = v
			}
		})
		mustRegisterCollector(reg, OrderSyncTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OrderSyncTotal = v
			}
		})
		mustRegisterCollector(reg, OrderSyncLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				OrderSyncLatency = v
			}
		})
		mustRegisterCollector(reg, PricingComputeDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				PricingComputeDuration = v
			}
		})
		mustRegisterCollector(reg, CartRecomputeTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				CartRecomputeTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
