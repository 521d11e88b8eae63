package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/amalgam-go/internal/adapters/persistence"
	"github.com/andrescamacho/amalgam-go/internal/domain/ledger"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
	"github.com/andrescamacho/amalgam-go/test/helpers"
)

func newRecord(t *testing.T, sid shared.SessionID, turn int, dir string, ts time.Time, crafted map[string]int) *ledger.TurnRecord {
	t.Helper()
	rec, err := ledger.NewTurnRecord(sid, turn, dir, ts, 1, turn+1, map[string]int{"Nebulite": 1}, crafted)
	require.NoError(t, err)
	return rec
}

func TestTurnRecordRepository_CreateAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTurnRecordRepository(db)
	sid := shared.NewSessionID()
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := newRecord(t, sid, 1, "right", ts, map[string]int{"Celestial Alloy": 1})

	// Act
	err := repo.Create(context.Background(), rec)
	require.NoError(t, err)
	found, err := repo.FindByID(context.Background(), rec.ID(), sid)

	// Assert
	require.NoError(t, err)
	assert.True(t, found.ID().Equals(rec.ID()))
	assert.True(t, found.SessionID().Equals(sid))
	assert.Equal(t, 1, found.TurnNumber())
	assert.Equal(t, "right", found.Direction())
	assert.True(t, ts.Equal(found.Timestamp()))
	assert.Equal(t, 2, found.Territory())
	assert.Equal(t, map[string]int{"Nebulite": 1}, found.Mined())
	assert.Equal(t, map[string]int{"Celestial Alloy": 1}, found.Crafted())
}

func TestTurnRecordRepository_NotFound(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTurnRecordRepository(db)

	// Act
	_, err := repo.FindByID(context.Background(), ledger.NewTurnRecordID(), shared.NewSessionID())

	// Assert
	require.Error(t, err)
	var notFound *ledger.ErrTurnRecordNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestTurnRecordRepository_FindBySessionFiltersAndPaginates(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTurnRecordRepository(db)
	ctx := context.Background()
	sid := shared.NewSessionID()
	other := shared.NewSessionID()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	dirs := []string{"up", "right", "up", "down", "up"}
	for i, dir := range dirs {
		var crafted map[string]int
		if i == 3 {
			crafted = map[string]int{"Solar Steel": 2}
		}
		require.NoError(t, repo.Create(ctx, newRecord(t, sid, i+1, dir, base.Add(time.Duration(i)*time.Minute), crafted)))
	}
	require.NoError(t, repo.Create(ctx, newRecord(t, other, 1, "up", base, nil)))

	// Act - all turns, default ordering
	all, err := repo.FindBySession(ctx, sid, ledger.DefaultQueryOptions())
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 5)
	for i, rec := range all {
		assert.Equal(t, i+1, rec.TurnNumber())
	}

	// Act - direction filter
	up := "up"
	opts := ledger.DefaultQueryOptions()
	opts.Direction = &up
	ups, err := repo.FindBySession(ctx, sid, opts)
	require.NoError(t, err)
	count, err := repo.CountBySession(ctx, sid, opts)
	require.NoError(t, err)
	assert.Len(t, ups, 3)
	assert.Equal(t, 3, count)

	// Act - crafted only
	opts = ledger.DefaultQueryOptions()
	opts.CraftedOnly = true
	crafted, err := repo.FindBySession(ctx, sid, opts)
	require.NoError(t, err)
	require.Len(t, crafted, 1)
	assert.Equal(t, 4, crafted[0].TurnNumber())

	// Act - pagination and descending order
	opts = ledger.DefaultQueryOptions()
	opts.Limit = 2
	opts.Offset = 1
	opts.OrderBy = "turn_number DESC"
	page, err := repo.FindBySession(ctx, sid, opts)
	require.NoError(t, err)
	total, err := repo.CountBySession(ctx, sid, opts)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 4, page[0].TurnNumber())
	assert.Equal(t, 3, page[1].TurnNumber())
	assert.Equal(t, 5, total)

	// Act - date range
	start := base.Add(2 * time.Minute)
	opts = ledger.DefaultQueryOptions()
	opts.StartDate = &start
	recent, err := repo.FindBySession(ctx, sid, opts)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}
