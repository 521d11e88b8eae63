package catalog

// CraftingNode is one resource in the recipe tree. Leaves are basic resources.
type CraftingNode struct {
	Resource Resource
	Count    int
	Children []*CraftingNode
}

// NewCraftingNode creates a node with no inputs
func NewCraftingNode(r Resource) *CraftingNode {
	return &CraftingNode{
		Resource: r,
		Children: make([]*CraftingNode, 0, 2),
	}
}

// AddChild adds an input node
func (n *CraftingNode) AddChild(child *CraftingNode) {
	n.Children = append(n.Children, child)
}

// IsLeaf returns true for basic resources
func (n *CraftingNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// TotalDepth returns the maximum depth of the tree from this node
func (n *CraftingNode) TotalDepth() int {
	if n.IsLeaf() {
		return 1
	}
	deepest := 0
	for _, child := range n.Children {
		if d := child.TotalDepth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Walk visits nodes depth-first, parents before children
func (n *CraftingNode) Walk(fn func(node *CraftingNode, depth int)) {
	n.walk(fn, 0)
}

func (n *CraftingNode) walk(fn func(node *CraftingNode, depth int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// Tree builds the recipe tree rooted at the super resource and annotates
// each node with its count in counts. A nil map yields zero counts.
func (c *Catalog) Tree(counts map[string]int) *CraftingNode {
	return c.subtree(c.Super().Name, counts)
}

func (c *Catalog) subtree(name string, counts map[string]int) *CraftingNode {
	node := NewCraftingNode(c.byName[name])
	node.Count = counts[name]
	if rec, ok := c.producedBy[name]; ok {
		for _, in := range rec.Inputs {
			node.AddChild(c.subtree(in, counts))
		}
	}
	return node
}
