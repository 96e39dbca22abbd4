package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "gasstation"
	// Subsystem for station metrics
	subsystem = "station"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalStationCollector is the singleton station metrics collector.
	// Set by SetGlobalStationCollector() when metrics are enabled.
	globalStationCollector StationMetricsRecorder
)

// StationMetricsRecorder defines the interface for recording purchase outcomes.
// Application code records through the package-level functions below.
type StationMetricsRecorder interface {
	RecordSale(grade string, amount float64, revenue float64, dispenseSeconds float64)
	RecordCancellation(grade string, reason string)
	PumpReserved()
	PumpReleased()
}

// InitRegistry initializes the Prometheus registry.
// Should be called once at startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry, nil if not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Reset drops the registry and the global collector
func Reset() {
	Registry = nil
	globalStationCollector = nil
}

// SetGlobalStationCollector sets the global station metrics collector
func SetGlobalStationCollector(collector StationMetricsRecorder) {
	globalStationCollector = collector
}

// RecordSale records a completed sale globally
func RecordSale(grade string, amount float64, revenue float64, dispenseSeconds float64) {
	if globalStationCollector != nil {
		globalStationCollector.RecordSale(grade, amount, revenue, dispenseSeconds)
	}
}

// RecordCancellation records a cancelled purchase globally
func RecordCancellation(grade string, reason string) {
	if globalStationCollector != nil {
		globalStationCollector.RecordCancellation(grade, reason)
	}
}

// PumpReserved counts one more pump in use globally
func PumpReserved() {
	if globalStationCollector != nil {
		globalStationCollector.PumpReserved()
	}
}

// PumpReleased counts one pump fewer in use globally
func PumpReleased() {
	if globalStationCollector != nil {
		globalStationCollector.PumpReleased()
	}
}
