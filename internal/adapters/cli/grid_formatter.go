package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
)

// GridFormatter renders a session snapshot as plain text
type GridFormatter struct {
	catalog *catalog.Catalog
}

// NewGridFormatter creates a formatter; a nil catalog uses the built-in one
func NewGridFormatter(cat *catalog.Catalog) *GridFormatter {
	if cat == nil {
		cat = catalog.Default()
	}
	return &GridFormatter{catalog: cat}
}

// FormatGrid draws one character per cell: '#' owned, '.' unowned,
// 'x' a depleted deposit, otherwise the resource glyph.
func (f *GridFormatter) FormatGrid(snap *dtos.SnapshotDTO) string {
	var b strings.Builder
	for _, row := range snap.Cells {
		for c, cell := range row {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(f.cellSymbol(cell))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (f *GridFormatter) cellSymbol(cell dtos.CellDTO) string {
	switch {
	case cell.Resource != "" && cell.Depleted:
		return "x"
	case cell.Resource != "":
		if res, ok := f.catalog.Resource(cell.Resource); ok && res.Glyph != "" {
			return res.Glyph
		}
		return "?"
	case cell.Owned:
		return "#"
	default:
		return "."
	}
}

// FormatSummary prints the game information block and inventory
func (f *GridFormatter) FormatSummary(snap *dtos.SnapshotDTO) string {
	super := f.catalog.Super()

	var b strings.Builder
	fmt.Fprintf(&b, "Session:    %s\n", snap.SessionID)
	fmt.Fprintf(&b, "Seed:       %d\n", snap.Seed)
	fmt.Fprintf(&b, "Turn:       %d\n", snap.TurnCount)
	fmt.Fprintf(&b, "Territory:  %d cells\n", snap.Territory)
	fmt.Fprintf(&b, "%s: %d\n", super.Name, snap.Count(super.Name))

	b.WriteString("\nInventory:\n")
	if len(snap.Inventory) == 0 {
		b.WriteString("  (empty)\n")
	}
	for _, item := range snap.Inventory {
		fmt.Fprintf(&b, "  %-16s tier %d  %d\n", item.Name, item.Tier, item.Count)
	}
	return b.String()
}
