package helpers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/amalgam-go/internal/application/common"
	"github.com/andrescamacho/amalgam-go/internal/domain/game"
	"github.com/andrescamacho/amalgam-go/internal/domain/ledger"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// FixtureTime is the creation time stamped on fixture sessions
var FixtureTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// NewBoard builds a size x size grid owning only the center, with resources
// placed at the given positions
func NewBoard(size int, resources map[game.Position]string) (*game.Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("board size must be positive, got %d", size)
	}
	rows := make([][]game.Cell, size)
	for r := range rows {
		rows[r] = make([]game.Cell, size)
	}
	rows[size/2][size/2].Owned = true
	for pos, name := range resources {
		if pos.Row < 0 || pos.Row >= size || pos.Col < 0 || pos.Col >= size {
			return nil, fmt.Errorf("resource position %v outside a %dx%d board", pos, size, size)
		}
		rows[pos.Row][pos.Col].Resource = name
	}
	return game.NewGridFromCells(rows)
}

// NewFixedSession wraps a hand-built board in a session with the default engine
func NewFixedSession(size int, resources map[game.Position]string, inventory game.Inventory) (*session.Session, error) {
	grid, err := NewBoard(size, resources)
	if err != nil {
		return nil, err
	}
	return session.New(
		shared.NewSessionID(),
		1,
		FixtureTime,
		game.NewEngine(nil, game.DefaultMiningCap),
		game.State{Grid: grid, Inventory: inventory.Clone()},
	), nil
}

// SpyPublisher records published turn events
type SpyPublisher struct {
	mu     sync.Mutex
	events []common.TurnEvent
}

func (p *SpyPublisher) PublishTurn(ctx context.Context, event common.TurnEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of everything published so far
func (p *SpyPublisher) Events() []common.TurnEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]common.TurnEvent(nil), p.events...)
}

// FailingTurnRepository rejects every write
type FailingTurnRepository struct {
	Err error
}

func (r *FailingTurnRepository) Create(ctx context.Context, record *ledger.TurnRecord) error {
	return r.Err
}

func (r *FailingTurnRepository) FindByID(ctx context.Context, id ledger.TurnRecordID, sessionID shared.SessionID) (*ledger.TurnRecord, error) {
	return nil, r.Err
}

func (r *FailingTurnRepository) FindBySession(ctx context.Context, sessionID shared.SessionID, opts ledger.QueryOptions) ([]*ledger.TurnRecord, error) {
	return nil, r.Err
}

func (r *FailingTurnRepository) CountBySession(ctx context.Context, sessionID shared.SessionID, opts ledger.QueryOptions) (int, error) {
	return 0, r.Err
}

// RecordingLogger captures GameLogger calls
type RecordingLogger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

type LogEntry struct {
	Level    string
	Message  string
	Metadata map[string]interface{}
}

func (l *RecordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: message, Metadata: metadata})
}

// HasLevel reports whether anything was logged at level
func (l *RecordingLogger) HasLevel(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.Entries {
		if e.Level == level {
			return true
		}
	}
	return false
}
