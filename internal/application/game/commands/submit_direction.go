package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/amalgam-go/internal/adapters/metrics"
	"github.com/andrescamacho/amalgam-go/internal/application/common"
	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/domain/game"
	"github.com/andrescamacho/amalgam-go/internal/domain/ledger"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

// SubmitDirectionCommand runs one turn. Direction is free text; anything that is
// not up/down/left/right resolves as a no-op.
type SubmitDirectionCommand struct {
	SessionID string
	Direction string
}

// SubmitDirectionResponse describes the resolved turn and the resulting state
type SubmitDirectionResponse struct {
	Direction    string
	Changed      bool
	CellsClaimed []game.Position
	Crafted      []game.Craft
	Mined        map[string]int
	TurnCount    int
	Snapshot     *dtos.SnapshotDTO
}

// SubmitDirectionHandler handles the SubmitDirection command
type SubmitDirectionHandler struct {
	sessions  session.Repository
	turns     ledger.TurnRecordRepository
	publisher common.TurnPublisher
	clock     shared.Clock
}

// NewSubmitDirectionHandler creates a new SubmitDirectionHandler.
// A nil turn repository disables the turn ledger; a nil publisher drops events.
func NewSubmitDirectionHandler(
	sessions session.Repository,
	turns ledger.TurnRecordRepository,
	publisher common.TurnPublisher,
	clock shared.Clock,
) *SubmitDirectionHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if publisher == nil {
		publisher = common.NoOpPublisher{}
	}

	return &SubmitDirectionHandler{
		sessions:  sessions,
		turns:     turns,
		publisher: publisher,
		clock:     clock,
	}
}

// Handle executes the SubmitDirection command
func (h *SubmitDirectionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SubmitDirectionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SubmitDirectionCommand")
	}

	sessionID, err := shared.ParseSessionID(cmd.SessionID)
	if err != nil {
		return nil, err
	}

	s, err := h.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	logger := common.LoggerFromContext(ctx)

	dir, valid := game.ParseDirection(cmd.Direction)
	if !valid {
		logger.Log("DEBUG", "Ignoring unknown direction", map[string]interface{}{
			"session_id": sessionID.String(),
			"direction":  cmd.Direction,
		})
	}

	outcome, state := s.Apply(dir)
	territory := state.Grid.OwnedCount()
	snapshot := dtos.NewSnapshot(sessionID.String(), s.Seed(), state, s.Engine())

	crafted := make(map[string]int, len(outcome.Crafted))
	for _, c := range outcome.Crafted {
		crafted[c.Output] = c.Times
	}

	metrics.RecordTurn(metrics.TurnInfo{
		Direction:    metricDirection(dir, valid),
		Changed:      outcome.Changed,
		CellsClaimed: len(outcome.Claimed),
		Territory:    territory,
		Mined:        outcome.Mined,
		Crafted:      crafted,
	})

	if outcome.Changed {
		if err := h.recordTurn(ctx, sessionID, outcome, territory, crafted); err != nil {
			// The turn already happened; a ledger failure must not undo it.
			logger.Log("ERROR", "Failed to record turn", map[string]interface{}{
				"session_id": sessionID.String(),
				"turn":       outcome.TurnCount,
				"error":      err.Error(),
			})
		}

		logger.Log("INFO", "Turn resolved", map[string]interface{}{
			"session_id":    sessionID.String(),
			"turn":          outcome.TurnCount,
			"direction":     dir.String(),
			"cells_claimed": len(outcome.Claimed),
			"territory":     territory,
		})

		h.publisher.PublishTurn(ctx, common.TurnEvent{
			SessionID: sessionID,
			Outcome:   outcome,
			State:     state,
			Snapshot:  snapshot,
		})
	}

	return &SubmitDirectionResponse{
		Direction:    string(dir),
		Changed:      outcome.Changed,
		CellsClaimed: outcome.Claimed,
		Crafted:      outcome.Crafted,
		Mined:        outcome.Mined,
		TurnCount:    state.TurnCount,
		Snapshot:     snapshot,
	}, nil
}

func (h *SubmitDirectionHandler) recordTurn(
	ctx context.Context,
	sessionID shared.SessionID,
	outcome game.TurnOutcome,
	territory int,
	crafted map[string]int,
) error {
	if h.turns == nil {
		return nil
	}

	record, err := ledger.NewTurnRecord(
		sessionID,
		outcome.TurnCount,
		outcome.Direction.String(),
		h.clock.Now(),
		len(outcome.Claimed),
		territory,
		outcome.Mined,
		crafted,
	)
	if err != nil {
		return fmt.Errorf("failed to create turn record: %w", err)
	}

	if err := h.turns.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to persist turn record: %w", err)
	}
	return nil
}

// metricDirection keeps label cardinality bounded for arbitrary input
func metricDirection(dir game.Direction, valid bool) string {
	if !valid {
		return "invalid"
	}
	return dir.String()
}
