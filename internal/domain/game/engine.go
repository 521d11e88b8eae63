package game

import (
	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
)

// Craft records how many times a recipe fired during combination
type Craft struct {
	Output string `json:"output"`
	Times  int    `json:"times"`
}

// TurnOutcome summarizes what a single turn did
type TurnOutcome struct {
	Direction Direction
	Changed   bool
	Claimed   []Position
	Crafted   []Craft
	Mined     map[string]int
	TurnCount int
}

// Engine resolves turns against a catalog. It holds no game state.
type Engine struct {
	catalog   *catalog.Catalog
	miningCap int
}

// NewEngine creates an engine. A nil catalog uses the default one; a
// non-positive mining cap uses DefaultMiningCap.
func NewEngine(cat *catalog.Catalog, miningCap int) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	if miningCap <= 0 {
		miningCap = DefaultMiningCap
	}
	return &Engine{catalog: cat, miningCap: miningCap}
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

func (e *Engine) MiningCap() int {
	return e.miningCap
}

// ResolveTurn runs expansion, then combination, then mining. The input state
// is never mutated. When nothing is claimed (edge-blocked or unknown direction)
// the returned state equals the input and Changed is false.
func (e *Engine) ResolveTurn(state State, dir Direction) (State, TurnOutcome) {
	outcome := TurnOutcome{Direction: dir, TurnCount: state.TurnCount}

	grid, claimed := e.Expand(state.Grid, dir)
	if len(claimed) == 0 {
		return state, outcome
	}

	inventory, crafted := e.Combine(state.Inventory)
	grid, inventory, mined := e.Mine(grid, inventory)

	outcome.Changed = true
	outcome.Claimed = claimed
	outcome.Crafted = crafted
	outcome.Mined = mined
	outcome.TurnCount = state.TurnCount + 1

	return State{Grid: grid, Inventory: inventory, TurnCount: outcome.TurnCount}, outcome
}

// Expand claims, for every cell owned before the turn, its neighbour in dir
// when that neighbour is in bounds and unowned. Claims do not chain within a
// turn. The original grid is returned untouched when nothing is claimed.
func (e *Engine) Expand(grid *Grid, dir Direction) (*Grid, []Position) {
	if grid == nil || !dir.Valid() {
		return grid, nil
	}

	var next *Grid
	claimed := make([]Position, 0)
	// Iterate the pre-turn owned set so newly claimed cells do not chain.
	for _, pos := range grid.OwnedPositions() {
		target := pos.Step(dir)
		if !grid.InBounds(target) {
			continue
		}
		cell := grid.Cell(target)
		if cell.Owned {
			continue
		}
		if next == nil {
			next = grid.Clone()
		}
		cell.Owned = true
		cell.Owner = PlayerOwner
		next.set(target, cell)
		claimed = append(claimed, target)
	}

	if next == nil {
		return grid, nil
	}
	return next, claimed
}

// Combine makes one top-down pass over the recipes: the tier 4 recipe first,
// then tier 3, then tier 2 in declared order. Each recipe consumes greedily
// while both inputs are positive. Outputs crafted during the pass are not fed
// to higher tiers until the next call, so a full set of basics climbs at most
// one tier per turn.
func (e *Engine) Combine(inv Inventory) (Inventory, []Craft) {
	out := inv.Clone()
	crafted := make([]Craft, 0)

	for _, rec := range e.catalog.ResolutionOrder() {
		a, b := rec.Inputs[0], rec.Inputs[1]
		n := min(out[a], out[b])
		if n <= 0 {
			continue
		}
		out[a] -= n
		out[b] -= n
		out[rec.Output] += n
		crafted = append(crafted, Craft{Output: rec.Output, Times: n})
	}
	return out, crafted
}

// Mine adds one unit to the inventory and to the cell's progress for every
// owned cell with a resource below the mining cap.
func (e *Engine) Mine(grid *Grid, inv Inventory) (*Grid, Inventory, map[string]int) {
	out := inv.Clone()
	mined := make(map[string]int)
	if grid == nil {
		return grid, out, mined
	}

	next := grid.Clone()
	for i, cell := range next.cells {
		if !cell.Owned || !cell.HasResource() || cell.MiningProgress >= e.miningCap {
			continue
		}
		out[cell.Resource]++
		mined[cell.Resource]++
		next.cells[i].MiningProgress++
	}
	return next, out, mined
}
