package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// TurnRecordID is a value object representing a turn record's unique identifier
type TurnRecordID struct {
	value string
}

// NewTurnRecordID creates a new TurnRecordID with a generated UUID
func NewTurnRecordID() TurnRecordID {
	return TurnRecordID{value: uuid.New().String()}
}

// NewTurnRecordIDFromString creates a TurnRecordID from an existing UUID string
func NewTurnRecordIDFromString(id string) (TurnRecordID, error) {
	if id == "" {
		return TurnRecordID{}, fmt.Errorf("turn_record_id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return TurnRecordID{}, fmt.Errorf("invalid turn_record_id format: %w", err)
	}
	return TurnRecordID{value: id}, nil
}

// MustNewTurnRecordIDFromString panics if id is invalid.
// Use this only for ids read back from the database.
func MustNewTurnRecordIDFromString(id string) TurnRecordID {
	rid, err := NewTurnRecordIDFromString(id)
	if err != nil {
		panic(err)
	}
	return rid
}

func (t TurnRecordID) String() string {
	return t.value
}

func (t TurnRecordID) Equals(other TurnRecordID) bool {
	return t.value == other.value
}

func (t TurnRecordID) IsZero() bool {
	return t.value == ""
}
