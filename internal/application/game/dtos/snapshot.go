package dtos

import (
	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
	"github.com/andrescamacho/amalgam-go/internal/domain/game"
)

// CellDTO is a rendered grid cell
type CellDTO struct {
	Row            int    `json:"row"`
	Col            int    `json:"col"`
	Owned          bool   `json:"owned"`
	Owner          string `json:"owner,omitempty"`
	Resource       string `json:"resource,omitempty"`
	MiningProgress int    `json:"mining_progress"`
	Depleted       bool   `json:"depleted,omitempty"`
}

// InventoryItemDTO is one inventory line, ordered by tier then catalog order
type InventoryItemDTO struct {
	Name  string `json:"name"`
	Tier  int    `json:"tier"`
	Count int    `json:"count"`
}

// SnapshotDTO is a read-only copy of a session suitable for rendering and transport
type SnapshotDTO struct {
	SessionID string             `json:"session_id"`
	Seed      uint64             `json:"seed"`
	Size      int                `json:"size"`
	MiningCap int                `json:"mining_cap"`
	TurnCount int                `json:"turn_count"`
	Territory int                `json:"territory"`
	Cells     [][]CellDTO        `json:"cells"`
	Inventory []InventoryItemDTO `json:"inventory"`
}

// Count returns the inventory count for name
func (s *SnapshotDTO) Count(name string) int {
	for _, item := range s.Inventory {
		if item.Name == name {
			return item.Count
		}
	}
	return 0
}

// Cell returns the cell at row/col, or a zero cell when out of range
func (s *SnapshotDTO) Cell(row, col int) CellDTO {
	if row < 0 || row >= len(s.Cells) || col < 0 || col >= len(s.Cells[row]) {
		return CellDTO{}
	}
	return s.Cells[row][col]
}

// Counts converts the inventory lines back into a name -> count map
func (s *SnapshotDTO) Counts() map[string]int {
	out := make(map[string]int, len(s.Inventory))
	for _, item := range s.Inventory {
		out[item.Name] = item.Count
	}
	return out
}

// GridToDTO converts a grid into rows of cells
func GridToDTO(grid *game.Grid, miningCap int) [][]CellDTO {
	rows := grid.Rows()
	out := make([][]CellDTO, len(rows))
	for r, row := range rows {
		out[r] = make([]CellDTO, len(row))
		for c, cell := range row {
			out[r][c] = CellDTO{
				Row:            r,
				Col:            c,
				Owned:          cell.Owned,
				Owner:          cell.Owner,
				Resource:       cell.Resource,
				MiningProgress: cell.MiningProgress,
				Depleted:       cell.Depleted(miningCap),
			}
		}
	}
	return out
}

// InventoryToDTO lists every catalog resource with a positive count.
// Names outside the catalog are appended at the end with tier 0.
func InventoryToDTO(inv game.Inventory, cat *catalog.Catalog) []InventoryItemDTO {
	items := make([]InventoryItemDTO, 0, len(inv))
	seen := make(map[string]bool, len(inv))
	for _, tier := range catalog.Tiers() {
		for _, r := range cat.ByTier(tier) {
			seen[r.Name] = true
			if n := inv[r.Name]; n > 0 {
				items = append(items, InventoryItemDTO{Name: r.Name, Tier: int(r.Tier), Count: n})
			}
		}
	}
	for _, name := range inv.Names() {
		if !seen[name] && inv[name] > 0 {
			items = append(items, InventoryItemDTO{Name: name, Count: inv[name]})
		}
	}
	return items
}

// NewSnapshot builds a snapshot from a state value
func NewSnapshot(sessionID string, seed uint64, state game.State, engine *game.Engine) *SnapshotDTO {
	return &SnapshotDTO{
		SessionID: sessionID,
		Seed:      seed,
		Size:      state.Grid.Size(),
		MiningCap: engine.MiningCap(),
		TurnCount: state.TurnCount,
		Territory: state.Grid.OwnedCount(),
		Cells:     GridToDTO(state.Grid, engine.MiningCap()),
		Inventory: InventoryToDTO(state.Inventory, engine.Catalog()),
	}
}
