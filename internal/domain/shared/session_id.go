package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// SessionID is a value object identifying a game session
type SessionID struct {
	value string
}

// NewSessionID creates a SessionID with a generated UUID
func NewSessionID() SessionID {
	return SessionID{value: uuid.New().String()}
}

// ParseSessionID creates a SessionID from an existing UUID string
func ParseSessionID(id string) (SessionID, error) {
	if id == "" {
		return SessionID{}, NewValidationError("session_id", "cannot be empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return SessionID{}, NewValidationError("session_id", fmt.Sprintf("invalid format: %v", err))
	}
	// Canonical lowercase form so lookups match whatever casing the caller used
	return SessionID{value: parsed.String()}, nil
}

// MustParseSessionID panics on an invalid id. Use only for ids read back from storage.
func MustParseSessionID(id string) SessionID {
	sid, err := ParseSessionID(id)
	if err != nil {
		panic(err)
	}
	return sid
}

func (s SessionID) String() string {
	return s.value
}

func (s SessionID) Equals(other SessionID) bool {
	return s.value == other.value
}

// Short returns the first eight characters, used in log lines and prompts
func (s SessionID) Short() string {
	if len(s.value) <= 8 {
		return s.value
	}
	return s.value[:8]
}

func (s SessionID) IsZero() bool {
	return s.value == ""
}
