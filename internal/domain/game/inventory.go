package game

import "sort"

// Inventory maps resource names to non-negative counts. A missing key counts as zero.
type Inventory map[string]int

// Clone returns an independent copy; a nil inventory clones to an empty one
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// Count returns the count for name
func (inv Inventory) Count(name string) int {
	return inv[name]
}

// Total sums every count
func (inv Inventory) Total() int {
	total := 0
	for _, v := range inv {
		total += v
	}
	return total
}

// Names returns the keys in sorted order
func (inv Inventory) Names() []string {
	names := make([]string, 0, len(inv))
	for k := range inv {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Equal compares two inventories treating absent keys as zero
func (inv Inventory) Equal(other Inventory) bool {
	for k, v := range inv {
		if other[k] != v {
			return false
		}
	}
	for k, v := range other {
		if inv[k] != v {
			return false
		}
	}
	return true
}

// State is the caller-owned value the engine transforms
type State struct {
	Grid      *Grid
	Inventory Inventory
	TurnCount int
}

// Clone deep-copies the state
func (s State) Clone() State {
	var grid *Grid
	if s.Grid != nil {
		grid = s.Grid.Clone()
	}
	return State{Grid: grid, Inventory: s.Inventory.Clone(), TurnCount: s.TurnCount}
}
