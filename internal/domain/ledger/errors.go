package ledger

import "fmt"

// ErrInvalidTurnRecord represents validation errors for turn records
type ErrInvalidTurnRecord struct {
	Field  string
	Reason string
}

func (e *ErrInvalidTurnRecord) Error() string {
	return fmt.Sprintf("invalid turn record: %s - %s", e.Field, e.Reason)
}

// ErrTurnRecordNotFound represents errors when a turn record cannot be found
type ErrTurnRecordNotFound struct {
	ID        string
	SessionID string
}

func (e *ErrTurnRecordNotFound) Error() string {
	return fmt.Sprintf("turn record not found: id=%s, session_id=%s", e.ID, e.SessionID)
}
