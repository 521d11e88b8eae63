package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
)

const (
	// PlayerOwner is the only owner identity
	PlayerOwner = "player"

	DefaultGridSize       = 20
	DefaultResourceChance = 0.12
	DefaultMiningCap      = 10
)

// Cell is one grid square. Resource is fixed at creation; MiningProgress only grows.
type Cell struct {
	Owned          bool   `json:"owned"`
	Owner          string `json:"owner,omitempty"`
	Resource       string `json:"resource,omitempty"`
	MiningProgress int    `json:"mining_progress"`
}

// HasResource reports whether the cell holds a resource deposit
func (c Cell) HasResource() bool {
	return c.Resource != ""
}

// Depleted reports whether the deposit has reached the mining cap
func (c Cell) Depleted(miningCap int) bool {
	return c.HasResource() && c.MiningProgress >= miningCap
}

// Grid is a square board stored row-major. Treat it as immutable: every
// mutating helper returns a modified copy.
type Grid struct {
	size  int
	cells []Cell
}

// NewEmptyGrid creates a grid with no resources and the center cell owned
func NewEmptyGrid(size int) (*Grid, error) {
	if size < 1 {
		return nil, fmt.Errorf("grid size must be positive, got %d", size)
	}
	g := &Grid{size: size, cells: make([]Cell, size*size)}
	center := g.Center()
	g.cells[g.index(center)] = Cell{Owned: true, Owner: PlayerOwner}
	return g, nil
}

// GenerateGrid creates a grid where each cell independently holds a
// uniformly chosen basic resource with probability chance.
func GenerateGrid(size int, chance float64, cat *catalog.Catalog, rng *rand.Rand) (*Grid, error) {
	if chance < 0 || chance > 1 {
		return nil, fmt.Errorf("resource chance must be within [0,1], got %v", chance)
	}
	g, err := NewEmptyGrid(size)
	if err != nil {
		return nil, err
	}
	basics := cat.Basics()
	for i := range g.cells {
		if rng.Float64() < chance {
			g.cells[i].Resource = basics[rng.IntN(len(basics))].Name
		}
	}
	return g, nil
}

// NewGridFromCells builds a grid from explicit rows. Used by tests and fixtures.
func NewGridFromCells(rows [][]Cell) (*Grid, error) {
	size := len(rows)
	if size == 0 {
		return nil, fmt.Errorf("grid must have at least one row")
	}
	g := &Grid{size: size, cells: make([]Cell, 0, size*size)}
	for i, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), size)
		}
		for _, c := range row {
			if c.Owned && c.Owner == "" {
				c.Owner = PlayerOwner
			}
			if !c.Owned {
				c.Owner = ""
			}
			g.cells = append(g.cells, c)
		}
	}
	return g, nil
}

func (g *Grid) index(p Position) int {
	return p.Row*g.size + p.Col
}

// Size returns the side length
func (g *Grid) Size() int {
	return g.size
}

// Center returns the starting cell position
func (g *Grid) Center() Position {
	return Position{Row: g.size / 2, Col: g.size / 2}
}

func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.size && p.Col >= 0 && p.Col < g.size
}

// Cell returns the cell at p. Out of bounds positions return a zero cell.
func (g *Grid) Cell(p Position) Cell {
	if !g.InBounds(p) {
		return Cell{}
	}
	return g.cells[g.index(p)]
}

// OwnedPositions lists owned cells in row-major order
func (g *Grid) OwnedPositions() []Position {
	owned := make([]Position, 0)
	for i, c := range g.cells {
		if c.Owned {
			owned = append(owned, Position{Row: i / g.size, Col: i % g.size})
		}
	}
	return owned
}

// OwnedCount returns the territory size
func (g *Grid) OwnedCount() int {
	n := 0
	for _, c := range g.cells {
		if c.Owned {
			n++
		}
	}
	return n
}

// Rows returns a copy of the grid as a slice of rows
func (g *Grid) Rows() [][]Cell {
	rows := make([][]Cell, g.size)
	for r := 0; r < g.size; r++ {
		rows[r] = append([]Cell(nil), g.cells[r*g.size:(r+1)*g.size]...)
	}
	return rows
}

// Clone returns an independent copy
func (g *Grid) Clone() *Grid {
	return &Grid{size: g.size, cells: append([]Cell(nil), g.cells...)}
}

func (g *Grid) set(p Position, c Cell) {
	g.cells[g.index(p)] = c
}
