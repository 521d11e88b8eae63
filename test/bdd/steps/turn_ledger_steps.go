package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/andrescamacho/amalgam-go/internal/adapters/persistence"
	gameCmd "github.com/andrescamacho/amalgam-go/internal/application/game/commands"
	ledgerQuery "github.com/andrescamacho/amalgam-go/internal/application/ledger/queries"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/application/setup"
	"github.com/andrescamacho/amalgam-go/internal/domain/game"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/test/helpers"
	"github.com/cucumber/godog"
)

type turnLedgerContext struct {
	mediator  mediator.Mediator
	sessionID string
	lastErr   error
}

func (lc *turnLedgerContext) reset() error {
	lc.mediator = nil
	lc.sessionID = ""
	lc.lastErr = nil
	return helpers.TruncateAllTables()
}

// Given steps

func (lc *turnLedgerContext) aGameSessionWithTheTurnLedgerEnabled(rows, cols int) error {
	if rows != cols {
		return fmt.Errorf("boards are square, got %dx%d", rows, cols)
	}

	sessions := persistence.NewMemorySessionRepository(0)
	turns := persistence.NewGormTurnRecordRepository(helpers.SharedTestDB)

	registry := setup.NewHandlerRegistry(sessions, turns, nil, nil, session.DefaultSettings(), nil)
	med, err := registry.CreateConfiguredMediator()
	if err != nil {
		return err
	}

	s, err := helpers.NewFixedSession(rows, map[game.Position]string{}, nil)
	if err != nil {
		return err
	}
	if err := sessions.Add(context.Background(), s); err != nil {
		return err
	}

	lc.mediator = med
	lc.sessionID = s.ID().String()
	return nil
}

// When steps

func (lc *turnLedgerContext) thePlayerSubmits(direction string) error {
	_, lc.lastErr = lc.mediator.Send(context.Background(), &gameCmd.SubmitDirectionCommand{
		SessionID: lc.sessionID,
		Direction: direction,
	})
	return lc.lastErr
}

// Then steps

func (lc *turnLedgerContext) history(query *ledgerQuery.GetTurnHistoryQuery) (*ledgerQuery.GetTurnHistoryResponse, error) {
	query.SessionID = lc.sessionID
	resp, err := lc.mediator.Send(context.Background(), query)
	if err != nil {
		return nil, err
	}
	history, ok := resp.(*ledgerQuery.GetTurnHistoryResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", resp)
	}
	return history, nil
}

func (lc *turnLedgerContext) theLedgerShouldHoldTurns(expected int) error {
	history, err := lc.history(&ledgerQuery.GetTurnHistoryQuery{})
	if err != nil {
		return err
	}
	if history.Total != expected || len(history.Turns) != expected {
		return fmt.Errorf("expected %d recorded turns, got total=%d listed=%d", expected, history.Total, len(history.Turns))
	}
	return nil
}

func (lc *turnLedgerContext) theLedgerFilteredByDirectionShouldHold(direction string, expected int) error {
	history, err := lc.history(&ledgerQuery.GetTurnHistoryQuery{Direction: &direction})
	if err != nil {
		return err
	}
	if history.Total != expected {
		return fmt.Errorf("expected %d %q turns, got %d", expected, direction, history.Total)
	}
	return nil
}

func (lc *turnLedgerContext) turnInTheLedgerShouldHave(turn int, direction string, territory int) error {
	history, err := lc.history(&ledgerQuery.GetTurnHistoryQuery{OrderBy: "asc"})
	if err != nil {
		return err
	}
	for _, rec := range history.Turns {
		if rec.TurnNumber != turn {
			continue
		}
		if rec.Direction != direction {
			return fmt.Errorf("turn %d: expected direction %q, got %q", turn, direction, rec.Direction)
		}
		if rec.Territory != territory {
			return fmt.Errorf("turn %d: expected territory %d, got %d", turn, territory, rec.Territory)
		}
		return nil
	}
	return fmt.Errorf("turn %d not found in ledger", turn)
}

func (lc *turnLedgerContext) theLedgerOrderedShouldListTurns(order, expected string) error {
	history, err := lc.history(&ledgerQuery.GetTurnHistoryQuery{OrderBy: order})
	if err != nil {
		return err
	}
	got := make([]string, len(history.Turns))
	for i, rec := range history.Turns {
		got[i] = strconv.Itoa(rec.TurnNumber)
	}
	if strings.Join(got, ",") != expected {
		return fmt.Errorf("expected turns %s in %s order, got %s", expected, order, strings.Join(got, ","))
	}
	return nil
}

func (lc *turnLedgerContext) theLedgerQueryWithDirectionShouldBeRejected(direction string) error {
	_, err := lc.history(&ledgerQuery.GetTurnHistoryQuery{Direction: &direction})
	if err == nil {
		return fmt.Errorf("expected direction %q to be rejected", direction)
	}
	return nil
}

// InitializeTurnLedgerScenario registers steps that drive turns through the
// mediator and read them back from the ledger
func InitializeTurnLedgerScenario(ctx *godog.ScenarioContext) {
	lc := &turnLedgerContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, lc.reset()
	})

	// Given steps
	ctx.Step(`^a game session on a (\d+)x(\d+) board with the turn ledger enabled$`, lc.aGameSessionWithTheTurnLedgerEnabled)

	// When steps
	ctx.Step(`^the player submits "([^"]*)"$`, lc.thePlayerSubmits)

	// Then steps
	ctx.Step(`^the ledger should hold (\d+) turns?$`, lc.theLedgerShouldHoldTurns)
	ctx.Step(`^the ledger filtered by direction "([^"]*)" should hold (\d+) turns?$`, lc.theLedgerFilteredByDirectionShouldHold)
	ctx.Step(`^turn (\d+) in the ledger should have direction "([^"]*)" and territory (\d+)$`, lc.turnInTheLedgerShouldHave)
	ctx.Step(`^the ledger ordered "([^"]*)" should list turns "([^"]*)"$`, lc.theLedgerOrderedShouldListTurns)
	ctx.Step(`^a ledger query for direction "([^"]*)" should be rejected$`, lc.theLedgerQueryWithDirectionShouldBeRejected)
}
