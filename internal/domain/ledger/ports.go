package ledger

import (
	"context"
	"time"

	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// TurnRecordRepository defines persistence operations for turn records
type TurnRecordRepository interface {
	// Create persists a new turn record
	Create(ctx context.Context, record *TurnRecord) error

	// FindByID retrieves a turn record by its ID
	FindByID(ctx context.Context, id TurnRecordID, sessionID shared.SessionID) (*TurnRecord, error)

	// FindBySession retrieves records for a session with optional filtering
	FindBySession(ctx context.Context, sessionID shared.SessionID, opts QueryOptions) ([]*TurnRecord, error)

	// CountBySession returns the count of records matching the criteria
	CountBySession(ctx context.Context, sessionID shared.SessionID, opts QueryOptions) (int, error)
}

// QueryOptions defines filtering and pagination options for turn record queries
type QueryOptions struct {
	StartDate *time.Time
	EndDate   *time.Time

	Direction *string

	// Only turns that crafted at least one resource
	CraftedOnly bool

	Limit  int
	Offset int

	// "turn_number ASC" or "turn_number DESC" (default ASC)
	OrderBy string
}

// DefaultQueryOptions returns default query options
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		Limit:   50,
		Offset:  0,
		OrderBy: "turn_number ASC",
	}
}
