package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// MemorySessionRepository keeps live sessions for the lifetime of the process.
// Game state is never written to the database.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	maxLive  int
}

// NewMemorySessionRepository creates an empty store. maxLive <= 0 means unbounded.
func NewMemorySessionRepository(maxLive int) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*session.Session),
		maxLive:  maxLive,
	}
}

func (r *MemorySessionRepository) Add(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID().String()]; exists {
		return fmt.Errorf("session %s already exists", s.ID())
	}
	if r.maxLive > 0 && len(r.sessions) >= r.maxLive {
		return fmt.Errorf("session limit reached (%d)", r.maxLive)
	}
	r.sessions[s.ID().String()] = s
	return nil
}

func (r *MemorySessionRepository) FindByID(ctx context.Context, id shared.SessionID) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id.String()]
	if !ok {
		return nil, shared.NewSessionNotFoundError(id.String())
	}
	return s, nil
}

func (r *MemorySessionRepository) List(ctx context.Context) ([]*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*session.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (r *MemorySessionRepository) Remove(ctx context.Context, id shared.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id.String()]; !ok {
		return shared.NewSessionNotFoundError(id.String())
	}
	delete(r.sessions, id.String())
	return nil
}
