package ledger

import (
	"fmt"
	"time"

	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// TurnRecord is the aggregate root for one resolved turn.
// Records are immutable audit entries; they are never replayed into a session.
type TurnRecord struct {
	id           TurnRecordID
	sessionID    shared.SessionID
	turnNumber   int
	direction    string
	timestamp    time.Time
	cellsClaimed int
	territory    int
	mined        map[string]int
	crafted      map[string]int
}

// NewTurnRecord creates a new turn record with validation
func NewTurnRecord(
	sessionID shared.SessionID,
	turnNumber int,
	direction string,
	timestamp time.Time,
	cellsClaimed int,
	territory int,
	mined map[string]int,
	crafted map[string]int,
) (*TurnRecord, error) {
	r := &TurnRecord{
		id:           NewTurnRecordID(),
		sessionID:    sessionID,
		turnNumber:   turnNumber,
		direction:    direction,
		timestamp:    timestamp,
		cellsClaimed: cellsClaimed,
		territory:    territory,
		mined:        copyCounts(mined),
		crafted:      copyCounts(crafted),
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// ReconstructTurnRecord rebuilds a record from persistence without validation
func ReconstructTurnRecord(
	id TurnRecordID,
	sessionID shared.SessionID,
	turnNumber int,
	direction string,
	timestamp time.Time,
	cellsClaimed int,
	territory int,
	mined map[string]int,
	crafted map[string]int,
) *TurnRecord {
	return &TurnRecord{
		id:           id,
		sessionID:    sessionID,
		turnNumber:   turnNumber,
		direction:    direction,
		timestamp:    timestamp,
		cellsClaimed: cellsClaimed,
		territory:    territory,
		mined:        copyCounts(mined),
		crafted:      copyCounts(crafted),
	}
}

// Validate checks the record invariants. Only turns that claimed territory are recorded.
func (r *TurnRecord) Validate() error {
	if r.sessionID.IsZero() {
		return &ErrInvalidTurnRecord{Field: "session_id", Reason: "session_id cannot be empty"}
	}
	if r.turnNumber < 1 {
		return &ErrInvalidTurnRecord{Field: "turn_number", Reason: fmt.Sprintf("must be positive, got %d", r.turnNumber)}
	}
	if r.direction == "" {
		return &ErrInvalidTurnRecord{Field: "direction", Reason: "direction cannot be empty"}
	}
	if r.cellsClaimed < 1 {
		return &ErrInvalidTurnRecord{Field: "cells_claimed", Reason: "a recorded turn must claim at least one cell"}
	}
	if r.territory < r.cellsClaimed+1 {
		return &ErrInvalidTurnRecord{Field: "territory", Reason: fmt.Sprintf("territory %d smaller than claimed cells plus origin", r.territory)}
	}
	for name, n := range r.mined {
		if n < 0 {
			return &ErrInvalidTurnRecord{Field: "mined", Reason: fmt.Sprintf("negative count for %s", name)}
		}
	}
	for name, n := range r.crafted {
		if n < 0 {
			return &ErrInvalidTurnRecord{Field: "crafted", Reason: fmt.Sprintf("negative count for %s", name)}
		}
	}
	return nil
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Getters (all fields are immutable)

func (r *TurnRecord) ID() TurnRecordID {
	return r.id
}

func (r *TurnRecord) SessionID() shared.SessionID {
	return r.sessionID
}

func (r *TurnRecord) TurnNumber() int {
	return r.turnNumber
}

func (r *TurnRecord) Direction() string {
	return r.direction
}

func (r *TurnRecord) Timestamp() time.Time {
	return r.timestamp
}

func (r *TurnRecord) CellsClaimed() int {
	return r.cellsClaimed
}

// Territory is the owned cell count after the turn
func (r *TurnRecord) Territory() int {
	return r.territory
}

func (r *TurnRecord) Mined() map[string]int {
	return copyCounts(r.mined)
}

func (r *TurnRecord) Crafted() map[string]int {
	return copyCounts(r.crafted)
}

// TotalMined sums the mined counts
func (r *TurnRecord) TotalMined() int {
	total := 0
	for _, n := range r.mined {
		total += n
	}
	return total
}
