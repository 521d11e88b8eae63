package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/amalgam-go/internal/domain/ledger"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

func TestNewTurnRecord_Valid(t *testing.T) {
	sid := shared.NewSessionID()
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	mined := map[string]int{"Crystalite": 1}

	rec, err := ledger.NewTurnRecord(sid, 1, "right", ts, 1, 2, mined, nil)

	require.NoError(t, err)
	assert.False(t, rec.ID().IsZero())
	assert.True(t, rec.SessionID().Equals(sid))
	assert.Equal(t, 1, rec.TurnNumber())
	assert.Equal(t, "right", rec.Direction())
	assert.Equal(t, ts, rec.Timestamp())
	assert.Equal(t, 1, rec.TotalMined())
	assert.Empty(t, rec.Crafted())

	// Mutating the input map does not leak into the record
	mined["Crystalite"] = 99
	assert.Equal(t, 1, rec.Mined()["Crystalite"])
}

func TestNewTurnRecord_Invalid(t *testing.T) {
	sid := shared.NewSessionID()
	ts := time.Now()

	tests := []struct {
		name  string
		build func() (*ledger.TurnRecord, error)
		field string
	}{
		{"zero session", func() (*ledger.TurnRecord, error) {
			return ledger.NewTurnRecord(shared.SessionID{}, 1, "up", ts, 1, 2, nil, nil)
		}, "session_id"},
		{"zero turn", func() (*ledger.TurnRecord, error) {
			return ledger.NewTurnRecord(sid, 0, "up", ts, 1, 2, nil, nil)
		}, "turn_number"},
		{"no direction", func() (*ledger.TurnRecord, error) {
			return ledger.NewTurnRecord(sid, 1, "", ts, 1, 2, nil, nil)
		}, "direction"},
		{"nothing claimed", func() (*ledger.TurnRecord, error) {
			return ledger.NewTurnRecord(sid, 1, "up", ts, 0, 1, nil, nil)
		}, "cells_claimed"},
		{"territory too small", func() (*ledger.TurnRecord, error) {
			return ledger.NewTurnRecord(sid, 1, "up", ts, 3, 3, nil, nil)
		}, "territory"},
		{"negative mined", func() (*ledger.TurnRecord, error) {
			return ledger.NewTurnRecord(sid, 1, "up", ts, 1, 2, map[string]int{"Nebulite": -1}, nil)
		}, "mined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()

			require.Error(t, err)
			var invalid *ledger.ErrInvalidTurnRecord
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestTurnRecordID_FromString(t *testing.T) {
	id := ledger.NewTurnRecordID()

	parsed, err := ledger.NewTurnRecordIDFromString(id.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equals(id))

	_, err = ledger.NewTurnRecordIDFromString("not-a-uuid")
	assert.Error(t, err)

	_, err = ledger.NewTurnRecordIDFromString("")
	assert.Error(t, err)
}
