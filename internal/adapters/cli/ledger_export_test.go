package cli_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/amalgam-go/internal/adapters/cli"
	"github.com/andrescamacho/amalgam-go/internal/application/ledger/queries"
)

func TestTurnExporter_WritesReadableStream(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	exporter, err := cli.NewTurnExporter(&buf)
	require.NoError(t, err)
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	turns := []*queries.TurnRecordDTO{
		{ID: "a", SessionID: "s", TurnNumber: 1, Direction: "up", Timestamp: ts, CellsClaimed: 1, Territory: 2},
		{ID: "b", SessionID: "s", TurnNumber: 2, Direction: "left", Timestamp: ts, CellsClaimed: 2, Territory: 4,
			Mined: map[string]int{"Crystalite": 1}, Crafted: map[string]int{"Celestial Alloy": 1}},
	}

	// Act
	for _, turn := range turns {
		require.NoError(t, exporter.Write(turn))
	}
	require.NoError(t, exporter.Close())
	decoded, err := cli.ReadTurnExport(&buf)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, exporter.Count())
	require.Len(t, decoded, 2)
	assert.Equal(t, "left", decoded[1].Direction)
	assert.Equal(t, map[string]int{"Celestial Alloy": 1}, decoded[1].Crafted)
	assert.True(t, ts.Equal(decoded[0].Timestamp))
}

func TestTurnExporter_EmptyStream(t *testing.T) {
	var buf bytes.Buffer
	exporter, err := cli.NewTurnExporter(&buf)
	require.NoError(t, err)
	require.NoError(t, exporter.Close())

	decoded, err := cli.ReadTurnExport(&buf)

	require.NoError(t, err)
	assert.Empty(t, decoded)
}
