package layout

import (
	"influflow/application/ports"
	"influflow/domain/mindmap"
)

// Defaults chosen to match typical mind-map canvas spacing
const (
	defaultTierWidth = 320.0
	defaultRowHeight = 120.0
)

// TieredEngine is the default layout: each level is a vertical tier, x
// grows with depth, and a parent is vertically centered on its children.
// Pure and deterministic; the same graph always lays out the same way.
type TieredEngine struct {
	tierWidth float64
	rowHeight float64
}

// NewTieredEngine creates a layout engine with default spacing
func NewTieredEngine() ports.LayoutEngine {
	return &TieredEngine{
		tierWidth: defaultTierWidth,
		rowHeight: defaultRowHeight,
	}
}

// Layout assigns a position to every node in place
func (e *TieredEngine) Layout(g *mindmap.Graph) error {
	byID := make(map[string]*mindmap.Node, len(g.Nodes))
	children := make(map[string][]string, len(g.Nodes))
	isChild := make(map[string]bool, len(g.Nodes))

	for i := range g.Nodes {
		byID[g.Nodes[i].ID] = &g.Nodes[i]
	}
	for _, edge := range g.Edges {
		children[edge.Source] = append(children[edge.Source], edge.Target)
		isChild[edge.Target] = true
	}

	// Leaves are stacked top to bottom in traversal order; every parent
	// centers on the span of its subtree.
	nextRow := 0.0
	var place func(id string) float64
	place = func(id string) float64 {
		node, ok := byID[id]
		if !ok {
			return nextRow
		}

		node.Position.X = float64(node.Level-1) * e.tierWidth

		kids := children[id]
		if len(kids) == 0 {
			node.Position.Y = nextRow
			nextRow += e.rowHeight
			return node.Position.Y
		}

		first := place(kids[0])
		last := first
		for _, kid := range kids[1:] {
			last = place(kid)
		}
		node.Position.Y = (first + last) / 2
		return node.Position.Y
	}

	for i := range g.Nodes {
		if !isChild[g.Nodes[i].ID] {
			place(g.Nodes[i].ID)
		}
	}

	return nil
}
