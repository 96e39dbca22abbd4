package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StationMetricsCollector handles purchase outcome metrics (sales, cancellations, revenue)
type StationMetricsCollector struct {
	// Outcome metrics
	salesTotal         *prometheus.CounterVec
	cancellationsTotal *prometheus.CounterVec

	// Volume metrics
	revenueTotal    *prometheus.CounterVec
	dispensedTotal  *prometheus.CounterVec
	dispenseSeconds *prometheus.HistogramVec

	// Occupancy
	pumpsInUse prometheus.Gauge
}

// NewStationMetricsCollector creates a new station metrics collector
func NewStationMetricsCollector() *StationMetricsCollector {
	return &StationMetricsCollector{
		salesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sales_total",
				Help:      "Total number of completed sales by fuel grade",
			},
			[]string{"grade"},
		),

		cancellationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cancellations_total",
				Help:      "Total number of cancelled purchases by fuel grade and reason",
			},
			[]string{"grade", "reason"},
		),

		revenueTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "revenue_total",
				Help:      "Accumulated revenue by fuel grade",
			},
			[]string{"grade"},
		),

		dispensedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "dispensed_units_total",
				Help:      "Total fuel units dispensed by fuel grade",
			},
			[]string{"grade"},
		),

		dispenseSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "dispense_duration_seconds",
				Help:      "Simulated dispense duration distribution",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"grade"},
		),

		pumpsInUse: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pumps_in_use",
				Help:      "Number of pumps currently reserved by a customer",
			},
		),
	}
}

// Register registers all station metrics with the Prometheus registry
func (c *StationMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.salesTotal,
		c.cancellationsTotal,
		c.revenueTotal,
		c.dispensedTotal,
		c.dispenseSeconds,
		c.pumpsInUse,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordSale records a completed sale
func (c *StationMetricsCollector) RecordSale(grade string, amount float64, revenue float64, dispenseSeconds float64) {
	c.salesTotal.WithLabelValues(grade).Inc()
	c.revenueTotal.WithLabelValues(grade).Add(revenue)
	c.dispensedTotal.WithLabelValues(grade).Add(amount)
	c.dispenseSeconds.WithLabelValues(grade).Observe(dispenseSeconds)
}

// RecordCancellation records a cancelled purchase
func (c *StationMetricsCollector) RecordCancellation(grade string, reason string) {
	c.cancellationsTotal.WithLabelValues(grade, reason).Inc()
}

// PumpReserved increments the pumps-in-use gauge
func (c *StationMetricsCollector) PumpReserved() {
	c.pumpsInUse.Inc()
}

// PumpReleased decrements the pumps-in-use gauge
func (c *StationMetricsCollector) PumpReleased() {
	c.pumpsInUse.Dec()
}
