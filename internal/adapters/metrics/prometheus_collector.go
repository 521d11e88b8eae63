package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "amalgam"
	// Subsystem for engine metrics
	subsystem = "engine"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalGameCollector is the singleton game metrics collector
	// Set by SetGlobalGameCollector() when metrics are enabled
	globalGameCollector GameMetricsRecorder
)

// TurnInfo carries the metric-relevant facts of one resolved turn
type TurnInfo struct {
	Direction    string
	Changed      bool
	CellsClaimed int
	Territory    int
	Mined        map[string]int
	Crafted      map[string]int
}

// GameMetricsRecorder defines the interface for recording game metrics
// This interface is used by application code to record metrics
type GameMetricsRecorder interface {
	RecordTurn(info TurnInfo)
	RecordSessionStarted(gridSize int)
	SetActiveSessions(n int)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalGameCollector sets the global game metrics collector
func SetGlobalGameCollector(collector GameMetricsRecorder) {
	globalGameCollector = collector
}

// RecordTurn records a resolved turn globally
func RecordTurn(info TurnInfo) {
	if globalGameCollector != nil {
		globalGameCollector.RecordTurn(info)
	}
}

// RecordSessionStarted records a new session globally
func RecordSessionStarted(gridSize int) {
	if globalGameCollector != nil {
		globalGameCollector.RecordSessionStarted(gridSize)
	}
}

// SetActiveSessions updates the live session gauge globally
func SetActiveSessions(n int) {
	if globalGameCollector != nil {
		globalGameCollector.SetActiveSessions(n)
	}
}
