package tui_test

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/amalgam-go/internal/adapters/tui"
	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
)

func smallSnapshot() *dtos.SnapshotDTO {
	cells := make([][]dtos.CellDTO, 3)
	for r := range cells {
		cells[r] = make([]dtos.CellDTO, 3)
		for c := range cells[r] {
			cells[r][c] = dtos.CellDTO{Row: r, Col: c}
		}
	}
	cells[1][1].Owned = true
	cells[1][2] = dtos.CellDTO{Row: 1, Col: 2, Owned: true, Resource: "Crystalite", MiningProgress: 10, Depleted: true}
	cells[0][2].Resource = "Nebulite"

	return &dtos.SnapshotDTO{
		Size:      3,
		TurnCount: 4,
		Territory: 2,
		Cells:     cells,
		Inventory: []dtos.InventoryItemDTO{{Name: "Quantum Amalgam", Tier: 4, Count: 1}},
	}
}

func TestRenderer_DrawsCells(t *testing.T) {
	// Arrange
	screen := newScreen(t)
	nebulite, _ := catalog.Default().Resource("Nebulite")

	// Act
	tui.NewRenderer(nil).Draw(screen, tui.View{Snapshot: smallSnapshot(), Status: "ready"})

	// Assert
	unowned, _, _, _ := screen.GetContent(0, 0)
	assert.Equal(t, '.', unowned)

	resource, _, style, _ := screen.GetContent(4, 0)
	assert.Equal(t, []rune(nebulite.Glyph)[0], resource)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.GetColor(nebulite.Color), fg)

	depleted, _, _, _ := screen.GetContent(4, 1)
	assert.Equal(t, '·', depleted)

	owned, _, ownedStyle, _ := screen.GetContent(2, 1)
	assert.Equal(t, ' ', owned)
	_, bg, _ := ownedStyle.Decompose()
	assert.Equal(t, tcell.ColorDarkGreen, bg)
}

func TestRenderer_InfoPanel(t *testing.T) {
	screen := newScreen(t)

	tui.NewRenderer(nil).Draw(screen, tui.View{Snapshot: smallSnapshot(), Status: "ready"})

	text := screenText(screen)
	assert.Contains(t, text, "Turn: 4")
	assert.Contains(t, text, "Territory: 2 cells")
	assert.Contains(t, text, "Quantum Amalgam: 1")
	assert.Contains(t, text, "Crafting")
	assert.Contains(t, text, "ready")
}

func TestRenderer_NilSnapshot(t *testing.T) {
	screen := newScreen(t)

	tui.NewRenderer(nil).Draw(screen, tui.View{})

	assert.Contains(t, screenText(screen), "loading...")
}
