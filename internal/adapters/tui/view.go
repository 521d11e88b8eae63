package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/andrescamacho/amalgam-go/internal/application/game/commands"
	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
)

const (
	cellWidth   = 2
	panelGap    = 3
	treeWidth   = 40
	treeHeight  = 8
	tierSpacing = 2
)

var (
	styleDefault   = tcell.StyleDefault
	styleTitle     = tcell.StyleDefault.Bold(true)
	styleUnowned   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleOwned     = tcell.StyleDefault.Background(tcell.ColorDarkGreen)
	styleDepleted  = tcell.StyleDefault.Background(tcell.ColorDarkGreen).Foreground(tcell.ColorDarkGray)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHelpFrame = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

// View is everything the renderer needs for one frame
type View struct {
	Snapshot *dtos.SnapshotDTO
	Status   string
	ShowHelp bool
}

// Renderer draws a View onto a tcell screen
type Renderer struct {
	catalog *catalog.Catalog
}

// NewRenderer creates a renderer; a nil catalog uses the built-in one
func NewRenderer(cat *catalog.Catalog) *Renderer {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Renderer{catalog: cat}
}

// Draw clears the screen and renders the grid, info panel, crafting panel,
// status line and optional help overlay. It does not call Show.
func (r *Renderer) Draw(screen tcell.Screen, v View) {
	screen.Clear()
	if v.Snapshot == nil {
		drawText(screen, 0, 0, styleDefault, "loading...")
		return
	}

	r.drawGrid(screen, v.Snapshot)

	panelX := v.Snapshot.Size*cellWidth + panelGap
	y := r.drawInfo(screen, panelX, 0, v.Snapshot)
	r.drawCraftingPanel(screen, panelX, y+1, v.Snapshot.Counts())

	_, height := screen.Size()
	statusY := v.Snapshot.Size + 1
	if statusY >= height {
		statusY = height - 1
	}
	drawText(screen, 0, statusY, styleStatus, v.Status)

	if v.ShowHelp {
		drawHelp(screen)
	}
}

func (r *Renderer) drawGrid(screen tcell.Screen, snap *dtos.SnapshotDTO) {
	for row, cells := range snap.Cells {
		for col, cell := range cells {
			ch, style := r.cellLook(cell)
			x := col * cellWidth
			screen.SetContent(x, row, ch, nil, style)
			screen.SetContent(x+1, row, ' ', nil, style.Foreground(tcell.ColorDefault))
		}
	}
}

func (r *Renderer) cellLook(cell dtos.CellDTO) (rune, tcell.Style) {
	base := styleUnowned
	if cell.Owned {
		base = styleOwned
	}

	switch {
	case cell.Resource == "":
		if cell.Owned {
			return ' ', base
		}
		return '.', base
	case cell.Depleted:
		return '·', styleDepleted
	}

	glyph, color := r.look(cell.Resource)
	return glyph, base.Foreground(color)
}

// look returns the glyph and color for a resource name
func (r *Renderer) look(name string) (rune, tcell.Color) {
	res, ok := r.catalog.Resource(name)
	if !ok {
		return '?', tcell.ColorWhite
	}
	glyph := '*'
	if res.Glyph != "" {
		glyph = []rune(res.Glyph)[0]
	}
	color := tcell.GetColor(res.Color)
	if color == tcell.ColorDefault {
		color = tcell.ColorWhite
	}
	return glyph, color
}

func (r *Renderer) drawInfo(screen tcell.Screen, x, y int, snap *dtos.SnapshotDTO) int {
	super := r.catalog.Super()

	drawText(screen, x, y, styleTitle, "Game Information")
	y++
	drawText(screen, x, y, styleDefault, fmt.Sprintf("Turn: %d", snap.TurnCount))
	y++
	drawText(screen, x, y, styleDefault, fmt.Sprintf("Territory: %d cells", snap.Territory))
	y++
	drawText(screen, x, y, styleDefault, fmt.Sprintf("%s: %d", super.Name, snap.Count(super.Name)))
	y += 2

	drawText(screen, x, y, styleTitle, "Inventory")
	y++
	if len(snap.Inventory) == 0 {
		drawText(screen, x, y, styleUnowned, "(empty)")
		return y + 1
	}
	for _, item := range snap.Inventory {
		glyph, color := r.look(item.Name)
		screen.SetContent(x, y, glyph, nil, styleDefault.Foreground(color))
		drawText(screen, x+2, y, styleDefault, fmt.Sprintf("%-16s %3d", item.Name, item.Count))
		y++
	}
	return y
}

// drawCraftingPanel lays the catalog out one tier per line pair, each
// resource centred on its diagram slot with its current count underneath.
func (r *Renderer) drawCraftingPanel(screen tcell.Screen, x, y int, counts map[string]int) {
	drawText(screen, x, y, styleTitle, "Crafting")
	y++

	for _, tier := range catalog.Tiers() {
		for _, res := range r.catalog.ByTier(tier) {
			slot := r.catalog.Slot(res, treeWidth, treeHeight)
			glyph, color := r.look(res.Name)
			col := x + int(slot.X)
			line := y + slot.Row*tierSpacing

			style := styleUnowned
			if counts[res.Name] > 0 {
				style = styleDefault.Foreground(color)
			}
			screen.SetContent(col, line, glyph, nil, style)
			drawText(screen, col, line+1, style, fmt.Sprintf("%d", counts[res.Name]))
		}
	}
}

func drawHelp(screen tcell.Screen) {
	lines := []string{"How to Play", ""}
	lines = append(lines, strings.Split(HowToPlay, "\n")...)
	lines = append(lines, "")
	lines = append(lines, helpKeys...)

	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	width += 4
	height := len(lines) + 2

	sw, sh := screen.Size()
	left := max((sw-width)/2, 0)
	top := max((sh-height)/2, 0)

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			screen.SetContent(left+col, top+row, ' ', nil, styleHelpFrame)
		}
	}
	for i, l := range lines {
		style := styleHelpFrame
		if i == 0 {
			style = style.Bold(true)
		}
		drawText(screen, left+2, top+1+i, style, l)
	}
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// FormatOutcome summarizes a resolved turn for the status line
func FormatOutcome(resp *commands.SubmitDirectionResponse) string {
	if !resp.Changed {
		return fmt.Sprintf("%s: nothing to claim", resp.Direction)
	}
	parts := []string{fmt.Sprintf("Turn %d: %s claimed %d", resp.TurnCount, resp.Direction, len(resp.CellsClaimed))}
	if s := formatCounts(resp.Mined); s != "" {
		parts = append(parts, "mined "+s)
	}
	crafted := make(map[string]int, len(resp.Crafted))
	for _, c := range resp.Crafted {
		crafted[c.Output] += c.Times
	}
	if s := formatCounts(crafted); s != "" {
		parts = append(parts, "crafted "+s)
	}
	return strings.Join(parts, ", ")
}

func formatCounts(m map[string]int) string {
	names := make([]string, 0, len(m))
	for name, n := range m {
		if n > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s x%d", name, m[name])
	}
	return strings.Join(parts, " ")
}
