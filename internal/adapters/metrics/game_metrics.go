package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// GameMetricsCollector handles turn, mining and crafting metrics
type GameMetricsCollector struct {
	turnsTotal      *prometheus.CounterVec
	cellsClaimed    prometheus.Counter
	resourcesMined  *prometheus.CounterVec
	resourcesCraft  *prometheus.CounterVec
	territorySize   prometheus.Histogram
	sessionsStarted *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

// NewGameMetricsCollector creates a new game metrics collector
func NewGameMetricsCollector() *GameMetricsCollector {
	return &GameMetricsCollector{
		// Turns by direction and whether anything was claimed
		turnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "turns_total",
				Help:      "Total number of submitted turns by direction and result",
			},
			[]string{"direction", "result"},
		),

		cellsClaimed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cells_claimed_total",
				Help:      "Total number of grid cells claimed",
			},
		),

		resourcesMined: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resources_mined_total",
				Help:      "Total units mined by resource",
			},
			[]string{"resource"},
		),

		resourcesCraft: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resources_crafted_total",
				Help:      "Total units crafted by output resource",
			},
			[]string{"resource"},
		),

		// Territory after each claiming turn
		territorySize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "territory_cells",
				Help:      "Owned cell count after each claiming turn",
				Buckets:   []float64{2, 5, 10, 25, 50, 100, 200, 400},
			},
		),

		sessionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sessions_started_total",
				Help:      "Total number of sessions started by grid size",
			},
			[]string{"grid_size"},
		),

		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_sessions",
				Help:      "Number of sessions currently held in memory",
			},
		),
	}
}

// Register registers all game metrics with the Prometheus registry
func (c *GameMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.turnsTotal,
		c.cellsClaimed,
		c.resourcesMined,
		c.resourcesCraft,
		c.territorySize,
		c.sessionsStarted,
		c.activeSessions,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordTurn records one submitted turn
func (c *GameMetricsCollector) RecordTurn(info TurnInfo) {
	result := "noop"
	if info.Changed {
		result = "claimed"
	}
	c.turnsTotal.WithLabelValues(info.Direction, result).Inc()

	if !info.Changed {
		return
	}

	c.cellsClaimed.Add(float64(info.CellsClaimed))
	c.territorySize.Observe(float64(info.Territory))
	for name, n := range info.Mined {
		c.resourcesMined.WithLabelValues(name).Add(float64(n))
	}
	for name, n := range info.Crafted {
		c.resourcesCraft.WithLabelValues(name).Add(float64(n))
	}
}

func (c *GameMetricsCollector) RecordSessionStarted(gridSize int) {
	c.sessionsStarted.WithLabelValues(strconv.Itoa(gridSize)).Inc()
}

func (c *GameMetricsCollector) SetActiveSessions(n int) {
	c.activeSessions.Set(float64(n))
}
