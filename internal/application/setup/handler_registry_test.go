package setup_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/amalgam-go/internal/adapters/persistence"
	"github.com/andrescamacho/amalgam-go/internal/application/game/commands"
	"github.com/andrescamacho/amalgam-go/internal/application/game/queries"
	ledgerQueries "github.com/andrescamacho/amalgam-go/internal/application/ledger/queries"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/application/setup"
	"github.com/andrescamacho/amalgam-go/internal/domain/game"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
	"github.com/andrescamacho/amalgam-go/test/helpers"
)

func newMediator(t *testing.T) (mediator.Mediator, *persistence.MemorySessionRepository) {
	t.Helper()
	sessions := persistence.NewMemorySessionRepository(0)
	turns := persistence.NewGormTurnRecordRepository(helpers.NewTestDB(t))
	registry := setup.NewHandlerRegistry(sessions, turns, nil, nil, session.DefaultSettings(), nil)
	m, err := registry.CreateConfiguredMediator()
	require.NoError(t, err)
	return m, sessions
}

func addFixture(t *testing.T, sessions *persistence.MemorySessionRepository) *session.Session {
	t.Helper()
	s, err := helpers.NewFixedSession(5, map[game.Position]string{
		{Row: 2, Col: 3}: "Crystalite",
		{Row: 2, Col: 1}: "Nebulite",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, sessions.Add(context.Background(), s))
	return s
}

func TestMediator_QueriesReflectTurns(t *testing.T) {
	// Arrange
	ctx := context.Background()
	m, sessions := newMediator(t)
	s := addFixture(t, sessions)
	id := s.ID().String()

	// Act: right claims Crystalite, left claims Nebulite, and the third turn
	// combines one pair before mining both cells again
	for _, dir := range []string{"right", "left", "down"} {
		_, err := m.Send(ctx, &commands.SubmitDirectionCommand{SessionID: id, Direction: dir})
		require.NoError(t, err)
	}

	// Assert
	resp, err := m.Send(ctx, &queries.GetTurnCountQuery{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.(*queries.GetTurnCountResponse).TurnCount)

	resp, err = m.Send(ctx, &queries.GetInventoryQuery{SessionID: id})
	require.NoError(t, err)
	inv := resp.(*queries.GetInventoryResponse)
	assert.Equal(t, 1, inv.Counts["Celestial Alloy"])
	assert.Equal(t, 2, inv.Counts["Crystalite"])
	assert.Equal(t, 1, inv.Counts["Nebulite"])

	resp, err = m.Send(ctx, &queries.GetGridQuery{SessionID: id})
	require.NoError(t, err)
	grid := resp.(*queries.GetGridResponse)
	assert.Equal(t, 5, grid.Size)
	assert.Equal(t, 6, grid.Territory)

	resp, err = m.Send(ctx, &queries.GetSessionQuery{SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.(*queries.GetSessionResponse).Snapshot.TurnCount)

	resp, err = m.Send(ctx, &ledgerQueries.GetTurnHistoryQuery{SessionID: id})
	require.NoError(t, err)
	history := resp.(*ledgerQueries.GetTurnHistoryResponse)
	require.Len(t, history.Turns, 3)
	assert.Equal(t, 3, history.Total)
	assert.Equal(t, "down", history.Turns[2].Direction)
	assert.Equal(t, map[string]int{"Celestial Alloy": 1}, history.Turns[2].Crafted)
}

func TestMediator_CraftingTree(t *testing.T) {
	ctx := context.Background()
	m, sessions := newMediator(t)
	s, err := helpers.NewFixedSession(5, nil, game.Inventory{"Quantum Amalgam": 2, "Nebulite": 1})
	require.NoError(t, err)
	require.NoError(t, sessions.Add(ctx, s))

	resp, err := m.Send(ctx, &queries.GetCraftingTreeQuery{SessionID: s.ID().String()})

	require.NoError(t, err)
	tree := resp.(*queries.GetCraftingTreeResponse)
	assert.Equal(t, "Quantum Amalgam", tree.Root.Name)
	assert.Equal(t, 2, tree.Root.Count)
	assert.Len(t, tree.Root.Inputs, 2)
	assert.NotEmpty(t, tree.CatalogDigest)

	resp, err = m.Send(ctx, &queries.GetCraftingTreeQuery{})
	require.NoError(t, err)
	assert.Zero(t, resp.(*queries.GetCraftingTreeResponse).Root.Count)
}

func TestMediator_ListSessions(t *testing.T) {
	ctx := context.Background()
	m, _ := newMediator(t)

	for i := 0; i < 2; i++ {
		_, err := m.Send(ctx, &commands.StartGameCommand{Seed: uint64(i + 1)})
		require.NoError(t, err)
	}

	resp, err := m.Send(ctx, &queries.ListSessionsQuery{})

	require.NoError(t, err)
	listed := resp.(*queries.ListSessionsResponse)
	require.Len(t, listed.Sessions, 2)
	assert.Equal(t, 1, listed.Sessions[0].Territory)
}

func TestMediator_UnknownSessionIsNotFound(t *testing.T) {
	m, _ := newMediator(t)

	_, err := m.Send(context.Background(), &queries.GetGridQuery{SessionID: shared.NewSessionID().String()})

	var notFound *shared.SessionNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestRegistry_WithoutLedgerSkipsHistory(t *testing.T) {
	sessions := persistence.NewMemorySessionRepository(0)
	registry := setup.NewHandlerRegistry(sessions, nil, nil, nil, session.DefaultSettings(), nil)
	m, err := registry.CreateConfiguredMediator()
	require.NoError(t, err)

	_, err = m.Send(context.Background(), &ledgerQueries.GetTurnHistoryQuery{SessionID: shared.NewSessionID().String()})

	assert.Error(t, err)
}
