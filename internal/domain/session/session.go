package session

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
	"github.com/andrescamacho/amalgam-go/internal/domain/game"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// Settings controls how a new session's board is generated
type Settings struct {
	GridSize       int
	ResourceChance float64
	MiningCap      int
	Seed           uint64
}

// DefaultSettings returns the standard 20x20 board
func DefaultSettings() Settings {
	return Settings{
		GridSize:       game.DefaultGridSize,
		ResourceChance: game.DefaultResourceChance,
		MiningCap:      game.DefaultMiningCap,
	}
}

// Session owns one game's state for its in-memory lifetime.
// SubmitDirection is the only mutating entry point; all methods are serialized.
type Session struct {
	mu        sync.Mutex
	id        shared.SessionID
	seed      uint64
	createdAt time.Time
	engine    *game.Engine
	state     game.State
}

// Start generates a fresh board from settings. A zero seed draws a random one.
func Start(settings Settings, cat *catalog.Catalog, clock shared.Clock) (*Session, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	seed := settings.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	grid, err := game.GenerateGrid(settings.GridSize, settings.ResourceChance, cat, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate grid: %w", err)
	}

	return New(shared.NewSessionID(), seed, clock.Now(), game.NewEngine(cat, settings.MiningCap), game.State{
		Grid:      grid,
		Inventory: game.Inventory{},
	}), nil
}

// New wraps an existing state. Used by Start and by tests that need a fixed board.
func New(id shared.SessionID, seed uint64, createdAt time.Time, engine *game.Engine, state game.State) *Session {
	if state.Inventory == nil {
		state.Inventory = game.Inventory{}
	}
	return &Session{
		id:        id,
		seed:      seed,
		createdAt: createdAt,
		engine:    engine,
		state:     state,
	}
}

func (s *Session) ID() shared.SessionID {
	return s.id
}

func (s *Session) Seed() uint64 {
	return s.seed
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) Engine() *game.Engine {
	return s.engine
}

// SubmitDirection resolves one turn and swaps in the resulting state.
// Invalid directions and edge-blocked moves leave the session unchanged.
func (s *Session) SubmitDirection(dir game.Direction) game.TurnOutcome {
	outcome, _ := s.Apply(dir)
	return outcome
}

// Apply is SubmitDirection that also returns a copy of the resulting state,
// taken under the same lock so no other turn can slip in between.
func (s *Session) Apply(dir game.Direction) (game.TurnOutcome, game.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, outcome := s.engine.ResolveTurn(s.state, dir)
	s.state = next
	return outcome, next.Clone()
}

// Grid returns a copy of the current board
func (s *Session) Grid() *game.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Grid.Clone()
}

// Inventory returns a copy of the current inventory
func (s *Session) Inventory() game.Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Inventory.Clone()
}

func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TurnCount
}

// State returns a deep copy of grid, inventory and turn count taken atomically
func (s *Session) State() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}
