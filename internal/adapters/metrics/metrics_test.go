package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
)

type fakeRequest struct{}

func metricValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	out := &dto.Metric{}
	require.NoError(t, m.Write(out))
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	t.Fatalf("unsupported metric type")
	return 0
}

func withRegistry(t *testing.T) {
	t.Helper()
	InitRegistry()
	t.Cleanup(func() {
		Registry = nil
		SetGlobalGameCollector(nil)
	})
}

func TestGameMetricsCollector_RecordTurn(t *testing.T) {
	withRegistry(t)
	collector := NewGameMetricsCollector()
	require.NoError(t, collector.Register())
	SetGlobalGameCollector(collector)

	RecordTurn(TurnInfo{
		Direction:    "right",
		Changed:      true,
		CellsClaimed: 2,
		Territory:    3,
		Mined:        map[string]int{"Crystalite": 1},
		Crafted:      map[string]int{"Celestial Alloy": 1},
	})
	RecordTurn(TurnInfo{Direction: "up"})

	assert.Equal(t, 1.0, metricValue(t, collector.turnsTotal.WithLabelValues("right", "claimed")))
	assert.Equal(t, 1.0, metricValue(t, collector.turnsTotal.WithLabelValues("up", "noop")))
	assert.Equal(t, 2.0, metricValue(t, collector.cellsClaimed))
	assert.Equal(t, 1.0, metricValue(t, collector.resourcesMined.WithLabelValues("Crystalite")))
	assert.Equal(t, 1.0, metricValue(t, collector.resourcesCraft.WithLabelValues("Celestial Alloy")))
}

func TestGameMetricsCollector_Sessions(t *testing.T) {
	withRegistry(t)
	collector := NewGameMetricsCollector()
	require.NoError(t, collector.Register())
	SetGlobalGameCollector(collector)

	RecordSessionStarted(20)
	SetActiveSessions(3)

	assert.Equal(t, 1.0, metricValue(t, collector.sessionsStarted.WithLabelValues("20")))
	assert.Equal(t, 3.0, metricValue(t, collector.activeSessions))
}

func TestGlobalRecorders_NoOpWhenDisabled(t *testing.T) {
	SetGlobalGameCollector(nil)

	assert.NotPanics(t, func() {
		RecordTurn(TurnInfo{Direction: "left"})
		RecordSessionStarted(20)
		SetActiveSessions(1)
	})
	assert.False(t, IsEnabled())
}

func TestPrometheusMiddleware_RecordsOutcome(t *testing.T) {
	withRegistry(t)
	collector := NewCommandMetricsCollector()
	require.NoError(t, collector.Register())
	mw := PrometheusMiddleware(collector)

	_, err := mw(context.Background(), &fakeRequest{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	_, err = mw(context.Background(), &fakeRequest{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)

	assert.Equal(t, 1.0, metricValue(t, collector.commandsTotal.WithLabelValues("fakeRequest", "success")))
	assert.Equal(t, 1.0, metricValue(t, collector.commandsTotal.WithLabelValues("fakeRequest", "error")))
}

func TestExtractCommandName(t *testing.T) {
	assert.Equal(t, "fakeRequest", extractCommandName(&fakeRequest{}))
	assert.Equal(t, "UnknownCommand", extractCommandName(nil))
}

func TestServer_ServesRegistry(t *testing.T) {
	withRegistry(t)
	collector := NewGameMetricsCollector()
	require.NoError(t, collector.Register())
	collector.RecordSessionStarted(20)

	srv, err := NewServer("127.0.0.1:0", "/metrics")
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "amalgam_engine_sessions_started_total"))
}
