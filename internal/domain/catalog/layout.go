package catalog

import "github.com/andrescamacho/amalgam-go/internal/domain/shared"

// Vertical share of the diagram given to each tier row, basic row first
var tierHeights = [4]float64{0.2, 0.25, 0.25, 0.2}

// Slot is where a resource sits in the crafting diagram
type Slot struct {
	Row      int
	Column   int
	X        float64
	NameY    float64
	IconY    float64
	CountY   float64
	LinkTopY float64
}

// Slot computes the diagram position of a resource inside a width x height box.
// Rows run basic (top) to super (bottom); columns are the index within the tier.
// An unknown tier or a resource missing from its tier is a catalog defect and panics.
func (c *Catalog) Slot(r Resource, width, height float64) Slot {
	if !r.Tier.Valid() {
		panic(shared.NewCatalogDefectError(r.Name, int(r.Tier), "invalid tier"))
	}
	row := int(r.Tier) - 1
	members := c.byTier[r.Tier]
	col := -1
	for i, m := range members {
		if m.Name == r.Name {
			col = i
			break
		}
	}
	if col < 0 {
		panic(shared.NewCatalogDefectError(r.Name, int(r.Tier), "resource not listed in its tier"))
	}

	columnWidth := width / float64(len(members))
	baseY := 0.0
	for i := 0; i < row; i++ {
		baseY += tierHeights[i] * height
	}
	tierHeight := tierHeights[row] * height
	nameHeight := tierHeight * 0.2
	iconHeight := tierHeight * 0.25

	return Slot{
		Row:      row,
		Column:   col,
		X:        float64(col)*columnWidth + columnWidth/2,
		NameY:    baseY + tierHeight*0.1,
		IconY:    baseY + nameHeight,
		CountY:   baseY + nameHeight + iconHeight,
		LinkTopY: baseY + nameHeight + iconHeight + tierHeight*0.1,
	}
}
