package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/amalgam-go/internal/adapters/persistence"
	"github.com/andrescamacho/amalgam-go/internal/application/game/commands"
	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

func newStartHandler(t *testing.T) (*commands.StartGameHandler, *persistence.MemorySessionRepository) {
	t.Helper()
	sessions := persistence.NewMemorySessionRepository(0)
	return commands.NewStartGameHandler(sessions, catalog.Default(), session.DefaultSettings(), nil), sessions
}

func TestStartGame_UsesDefaults(t *testing.T) {
	// Arrange
	handler, sessions := newStartHandler(t)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.StartGameCommand{Seed: 99})

	// Assert
	require.NoError(t, err)
	started := resp.(*commands.StartGameResponse)
	assert.NotEmpty(t, started.SessionID)
	assert.Equal(t, started.SessionID, started.Snapshot.SessionID)
	assert.Equal(t, uint64(99), started.Snapshot.Seed)
	assert.Equal(t, 20, started.Snapshot.Size)
	assert.Equal(t, 10, started.Snapshot.MiningCap)
	assert.Equal(t, 0, started.Snapshot.TurnCount)
	assert.Equal(t, 1, started.Snapshot.Territory)
	assert.True(t, started.Snapshot.Cell(10, 10).Owned)
	assert.Empty(t, started.Snapshot.Inventory)

	all, err := sessions.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStartGame_OverridesSettings(t *testing.T) {
	handler, _ := newStartHandler(t)

	resp, err := handler.Handle(context.Background(), &commands.StartGameCommand{
		GridSize:  9,
		MiningCap: 2,
		Seed:      5,
	})

	require.NoError(t, err)
	started := resp.(*commands.StartGameResponse)
	assert.Equal(t, 9, started.Snapshot.Size)
	assert.Equal(t, 2, started.Snapshot.MiningCap)
	assert.True(t, started.Snapshot.Cell(4, 4).Owned)
}

func TestStartGame_SameSeedSameBoard(t *testing.T) {
	handler, _ := newStartHandler(t)

	a, err := handler.Handle(context.Background(), &commands.StartGameCommand{Seed: 31337})
	require.NoError(t, err)
	b, err := handler.Handle(context.Background(), &commands.StartGameCommand{Seed: 31337})
	require.NoError(t, err)

	assert.Equal(t, a.(*commands.StartGameResponse).Snapshot.Cells, b.(*commands.StartGameResponse).Snapshot.Cells)
}

func TestStartGame_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *commands.StartGameCommand
		field string
	}{
		{"grid too large", &commands.StartGameCommand{GridSize: 500}, "GridSize"},
		{"chance above one", &commands.StartGameCommand{ResourceChance: 1.5}, "ResourceChance"},
		{"negative cap", &commands.StartGameCommand{MiningCap: -1}, "MiningCap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newStartHandler(t)

			_, err := handler.Handle(context.Background(), tt.cmd)

			var invalid *shared.ValidationError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}
