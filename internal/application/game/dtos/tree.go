package dtos

import "github.com/andrescamacho/amalgam-go/internal/domain/catalog"

// CraftingNodeDTO is a serializable crafting tree node
type CraftingNodeDTO struct {
	Name   string             `json:"name"`
	Tier   int                `json:"tier"`
	Glyph  string             `json:"glyph,omitempty"`
	Count  int                `json:"count"`
	Inputs []*CraftingNodeDTO `json:"inputs,omitempty"`
}

// CraftingTreeToDTO converts a crafting tree recursively
func CraftingTreeToDTO(node *catalog.CraftingNode) *CraftingNodeDTO {
	if node == nil {
		return nil
	}
	dto := &CraftingNodeDTO{
		Name:  node.Resource.Name,
		Tier:  int(node.Resource.Tier),
		Glyph: node.Resource.Glyph,
		Count: node.Count,
	}
	for _, child := range node.Children {
		dto.Inputs = append(dto.Inputs, CraftingTreeToDTO(child))
	}
	return dto
}
