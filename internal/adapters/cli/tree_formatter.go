package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
)

// TreeFormatter renders crafting trees for the terminal
type TreeFormatter struct {
	useColors bool
	useGlyphs bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors, useGlyphs bool) *TreeFormatter {
	return &TreeFormatter{
		useColors: useColors,
		useGlyphs: useGlyphs,
	}
}

// FormatTree renders a crafting tree with held counts
func (f *TreeFormatter) FormatTree(root *dtos.CraftingNodeDTO) string {
	if root == nil {
		return "(empty tree)"
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

// formatNode recursively formats a node and its inputs
func (f *TreeFormatter) formatNode(builder *strings.Builder, node *dtos.CraftingNodeDTO, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	glyph := ""
	if f.useGlyphs && node.Glyph != "" {
		glyph = node.Glyph + " "
	}

	fmt.Fprintf(builder, "%s%s %s%s [%stier %d%s] x%d\n",
		linePrefix,
		f.statusIcon(node),
		glyph,
		node.Name,
		f.tierColor(node.Tier),
		node.Tier,
		f.colorReset(),
		node.Count,
	)

	if len(node.Inputs) == 0 {
		return
	}

	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}

	for i, child := range node.Inputs {
		f.formatNode(builder, child, childPrefix, i == len(node.Inputs)-1, false)
	}
}

func (f *TreeFormatter) statusIcon(node *dtos.CraftingNodeDTO) string {
	if node.Count > 0 {
		return "[✓]"
	}
	return "[ ]"
}

// tierColor returns the ANSI color code for a tier
func (f *TreeFormatter) tierColor(tier int) string {
	if !f.useColors {
		return ""
	}

	switch tier {
	case 1:
		return "\033[32m" // Green
	case 2:
		return "\033[36m" // Cyan
	case 3:
		return "\033[33m" // Yellow
	case 4:
		return "\033[35m" // Magenta
	default:
		return ""
	}
}

func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatTreeSummary creates a compact summary of the tree
func (f *TreeFormatter) FormatTreeSummary(root *dtos.CraftingNodeDTO) string {
	if root == nil {
		return "No crafting tree"
	}

	nodes, held, depth := walkTree(root, 1)
	return fmt.Sprintf("Tree: %d nodes, depth=%d, held=%d/%d", nodes, depth, held, nodes)
}

func walkTree(node *dtos.CraftingNodeDTO, level int) (nodes, held, depth int) {
	nodes, depth = 1, level
	if node.Count > 0 {
		held = 1
	}
	for _, child := range node.Inputs {
		n, h, d := walkTree(child, level+1)
		nodes += n
		held += h
		depth = max(depth, d)
	}
	return nodes, held, depth
}
