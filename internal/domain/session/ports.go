package session

import (
	"context"

	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// Repository keeps live sessions. Sessions are never persisted across restarts.
type Repository interface {
	Add(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id shared.SessionID) (*Session, error)
	List(ctx context.Context) ([]*Session, error)
	Remove(ctx context.Context, id shared.SessionID) error
}
