package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PlacementMetrics содержит метрики транзакции размещения заказа.
type PlacementMetrics struct {
	// Счётчики исходов
	placementStarted   prometheus.Counter
	placementCommitted prometheus.Counter
	placementRejected  *prometheus.CounterVec

	// Гистограмма длительности всей транзакции
	placementDuration prometheus.Histogram

	// Гистограмма ожидания блокировки строки товара
	lockWait prometheus.Histogram

	// Gauge для транзакций в полёте
	inflightPlacements prometheus.Gauge
}

// NewPlacementMetrics создаёт метрики с регистрацией в DefaultRegisterer.
func NewPlacementMetrics() *PlacementMetrics {
	return NewPlacementMetricsWith(prometheus.DefaultRegisterer)
}

// NewPlacementMetricsWith создаёт метрики с указанным registerer (для тестов).
func NewPlacementMetricsWith(registerer prometheus.Registerer) *PlacementMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &PlacementMetrics{
		placementStarted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "backoffice_order_placement_started_total",
			Help: "Total number of order placement transactions started",
		}),
		placementCommitted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "backoffice_order_placement_committed_total",
			Help: "Total number of order placement transactions committed",
		}),
		placementRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "backoffice_order_placement_rejected_total",
			Help: "Total number of order placement transactions rolled back, by reason",
		}, []string{"reason"}),
		placementDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "backoffice_order_placement_duration_seconds",
			Help:    "Duration of order placement transactions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		lockWait: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "backoffice_stock_lock_wait_seconds",
			Help:    "Time spent waiting for the product row lock in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		inflightPlacements: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "backoffice_order_placements_inflight",
			Help: "Number of order placement transactions currently in flight",
		}),
	}
}

// RecordStarted учитывает начало транзакции размещения.
func (m *PlacementMetrics) RecordStarted() {
	if m == nil {
		return
	}
	m.placementStarted.Inc()
	m.inflightPlacements.Inc()
}

// RecordCommitted учитывает успешный коммит.
func (m *PlacementMetrics) RecordCommitted() {
	if m == nil {
		return
	}
	m.placementCommitted.Inc()
	m.inflightPlacements.Dec()
}

// RecordRejected учитывает откат с указанием причины.
func (m *PlacementMetrics) RecordRejected(reason string) {
	if m == nil {
		return
	}
	m.placementRejected.WithLabelValues(reason).Inc()
	m.inflightPlacements.Dec()
}

// RecordDuration учитывает полную длительность вызова.
func (m *PlacementMetrics) RecordDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.placementDuration.Observe(d.Seconds())
}

// RecordLockWait учитывает время ожидания блокировки строки.
func (m *PlacementMetrics) RecordLockWait(d time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.Observe(d.Seconds())
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}
