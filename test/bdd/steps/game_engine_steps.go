package steps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/andrescamacho/amalgam-go/internal/domain/game"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/test/helpers"
	"github.com/cucumber/godog"
)

type gameEngineContext struct {
	size      int
	resources map[game.Position]string
	inventory game.Inventory

	session     *session.Session
	lastOutcome game.TurnOutcome
}

func (gc *gameEngineContext) reset() {
	gc.size = 0
	gc.resources = make(map[game.Position]string)
	gc.inventory = make(game.Inventory)
	gc.session = nil
	gc.lastOutcome = game.TurnOutcome{}
}

// ensureSession builds the session from the Given steps on first use
func (gc *gameEngineContext) ensureSession() error {
	if gc.session != nil {
		return nil
	}
	if gc.size == 0 {
		return fmt.Errorf("no board configured")
	}
	s, err := helpers.NewFixedSession(gc.size, gc.resources, gc.inventory)
	if err != nil {
		return err
	}
	gc.session = s
	return nil
}

// Given steps

func (gc *gameEngineContext) aBoardOwningOnlyTheCenter(rows, cols int) error {
	if rows != cols {
		return fmt.Errorf("boards are square, got %dx%d", rows, cols)
	}
	gc.size = rows
	return nil
}

func (gc *gameEngineContext) aDepositAt(resource string, row, col int) error {
	gc.resources[game.Position{Row: row, Col: col}] = resource
	return nil
}

func (gc *gameEngineContext) theInventoryHoldsCount(count int, resource string) error {
	gc.inventory[resource] = count
	return nil
}

func (gc *gameEngineContext) theInventoryHolds(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		if len(row.Cells) != 2 {
			return fmt.Errorf("expected | resource | count | rows, got %d cells", len(row.Cells))
		}
		count, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", row.Cells[1].Value, err)
		}
		gc.inventory[row.Cells[0].Value] = count
	}
	return nil
}

// When steps

func (gc *gameEngineContext) thePlayerMoves(direction string) error {
	if err := gc.ensureSession(); err != nil {
		return err
	}
	dir, _ := game.ParseDirection(direction)
	gc.lastOutcome = gc.session.SubmitDirection(dir)
	return nil
}

func (gc *gameEngineContext) thePlayerMovesTimes(direction string, times int) error {
	for i := 0; i < times; i++ {
		if err := gc.thePlayerMoves(direction); err != nil {
			return err
		}
	}
	return nil
}

// Then steps

func (gc *gameEngineContext) theTurnCountShouldBe(expected int) error {
	if err := gc.ensureSession(); err != nil {
		return err
	}
	if got := gc.session.TurnCount(); got != expected {
		return fmt.Errorf("expected turn count %d, got %d", expected, got)
	}
	return nil
}

func (gc *gameEngineContext) theTerritoryShouldBe(expected int) error {
	if err := gc.ensureSession(); err != nil {
		return err
	}
	if got := gc.session.Grid().OwnedCount(); got != expected {
		return fmt.Errorf("expected territory of %d cells, got %d", expected, got)
	}
	return nil
}

func (gc *gameEngineContext) theCellShouldBeOwned(row, col int) error {
	if err := gc.ensureSession(); err != nil {
		return err
	}
	if !gc.session.Grid().Cell(game.Position{Row: row, Col: col}).Owned {
		return fmt.Errorf("expected cell (%d,%d) to be owned", row, col)
	}
	return nil
}

func (gc *gameEngineContext) theCellShouldNotBeOwned(row, col int) error {
	if err := gc.ensureSession(); err != nil {
		return err
	}
	if gc.session.Grid().Cell(game.Position{Row: row, Col: col}).Owned {
		return fmt.Errorf("expected cell (%d,%d) to be unowned", row, col)
	}
	return nil
}

func (gc *gameEngineContext) theCellShouldHaveMiningProgress(row, col, expected int) error {
	if err := gc.ensureSession(); err != nil {
		return err
	}
	got := gc.session.Grid().Cell(game.Position{Row: row, Col: col}).MiningProgress
	if got != expected {
		return fmt.Errorf("expected mining progress %d at (%d,%d), got %d", expected, row, col, got)
	}
	return nil
}

func (gc *gameEngineContext) theInventoryShouldHold(expected int, resource string) error {
	if err := gc.ensureSession(); err != nil {
		return err
	}
	if got := gc.session.Inventory().Count(resource); got != expected {
		return fmt.Errorf("expected %d %s in inventory, got %d", expected, resource, got)
	}
	return nil
}

func (gc *gameEngineContext) theLastTurnShouldNotHaveChangedTheBoard() error {
	if gc.lastOutcome.Changed {
		return fmt.Errorf("expected the last turn to be a no-op, but it claimed %d cells", len(gc.lastOutcome.Claimed))
	}
	return nil
}

func (gc *gameEngineContext) theLastTurnShouldHaveCrafted(times int, output string) error {
	for _, c := range gc.lastOutcome.Crafted {
		if c.Output == output {
			if c.Times != times {
				return fmt.Errorf("expected %s crafted %d times, got %d", output, times, c.Times)
			}
			return nil
		}
	}
	return fmt.Errorf("expected %s to be crafted, crafted: %v", output, gc.lastOutcome.Crafted)
}

func (gc *gameEngineContext) theLastTurnShouldHaveCraftedNothing() error {
	if len(gc.lastOutcome.Crafted) != 0 {
		return fmt.Errorf("expected no crafting, got %v", gc.lastOutcome.Crafted)
	}
	return nil
}

// InitializeGameEngineScenario registers turn resolution steps
func InitializeGameEngineScenario(ctx *godog.ScenarioContext) {
	gc := &gameEngineContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		gc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a (\d+)x(\d+) board owning only the center$`, gc.aBoardOwningOnlyTheCenter)
	ctx.Step(`^a "([^"]*)" deposit at row (\d+) column (\d+)$`, gc.aDepositAt)
	ctx.Step(`^the inventory holds (\d+) "([^"]*)"$`, gc.theInventoryHoldsCount)
	ctx.Step(`^the inventory holds:$`, gc.theInventoryHolds)

	// When steps
	ctx.Step(`^the player moves "([^"]*)"$`, gc.thePlayerMoves)
	ctx.Step(`^the player moves "([^"]*)" (\d+) times$`, gc.thePlayerMovesTimes)

	// Then steps
	ctx.Step(`^the turn count should be (\d+)$`, gc.theTurnCountShouldBe)
	ctx.Step(`^the territory should be (\d+) cells?$`, gc.theTerritoryShouldBe)
	ctx.Step(`^the cell at row (\d+) column (\d+) should be owned$`, gc.theCellShouldBeOwned)
	ctx.Step(`^the cell at row (\d+) column (\d+) should not be owned$`, gc.theCellShouldNotBeOwned)
	ctx.Step(`^the cell at row (\d+) column (\d+) should have mining progress (\d+)$`, gc.theCellShouldHaveMiningProgress)
	ctx.Step(`^the inventory should hold (\d+) "([^"]*)"$`, gc.theInventoryShouldHold)
	ctx.Step(`^the last turn should not have changed the board$`, gc.theLastTurnShouldNotHaveChangedTheBoard)
	ctx.Step(`^the last turn should have crafted (\d+) "([^"]*)"$`, gc.theLastTurnShouldHaveCrafted)
	ctx.Step(`^the last turn should have crafted nothing$`, gc.theLastTurnShouldHaveCraftedNothing)
}
