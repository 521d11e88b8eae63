package observer

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/andrescamacho/amalgam-go/internal/application/common"
)

const subscriberQueue = 32

type subscriber struct {
	out chan []byte
}

// Hub fans resolved turns out to the websocket connections watching each
// session. Slow subscribers lose messages rather than block a turn.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	logger      *slog.Logger
}

// NewHub creates an empty hub; a nil logger uses slog.Default()
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
		logger:      logger,
	}
}

func (h *Hub) subscribe(sessionID string) *subscriber {
	sub := &subscriber{out: make(chan []byte, subscriberQueue)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[sessionID] == nil {
		h.subscribers[sessionID] = make(map[*subscriber]struct{})
	}
	h.subscribers[sessionID][sub] = struct{}{}
	return sub
}

func (h *Hub) unsubscribe(sessionID string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers[sessionID], sub)
	if len(h.subscribers[sessionID]) == 0 {
		delete(h.subscribers, sessionID)
	}
}

// Subscribers counts live connections for a session
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[sessionID])
}

// PublishTurn implements common.TurnPublisher
func (h *Hub) PublishTurn(ctx context.Context, event common.TurnEvent) {
	sessionID := event.SessionID.String()
	if h.Subscribers(sessionID) == 0 {
		return
	}

	crafted := make(map[string]int, len(event.Outcome.Crafted))
	for _, c := range event.Outcome.Crafted {
		crafted[c.Output] = c.Times
	}

	payload, err := json.Marshal(ServerMessage{
		Type: TypeTurn,
		Turn: &TurnSummary{
			Direction:    event.Outcome.Direction.String(),
			CellsClaimed: len(event.Outcome.Claimed),
			Mined:        event.Outcome.Mined,
			Crafted:      crafted,
		},
		Snapshot: event.Snapshot,
	})
	if err != nil {
		h.logger.Error("failed to encode turn message", "session_id", sessionID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers[sessionID] {
		if !sub.send(payload) {
			h.logger.Warn("dropping turn for slow observer", "session_id", sessionID, "turn", event.Outcome.TurnCount)
		}
	}
}

func (s *subscriber) send(payload []byte) bool {
	select {
	case s.out <- payload:
		return true
	default:
		return false
	}
}
