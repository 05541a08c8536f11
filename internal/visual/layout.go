package visual

// LayoutStrategy arranges cell geometries. Strategies write into the
// geometry matching the display mode and leave the other untouched.
type LayoutStrategy interface {
	Name() string
	Arrange(cells []*Cell, edges []*Edge, collapsed bool)
}

const (
	hGapX = 40.0
	hGapY = 60.0
)

// HierarchicalLayout assigns levels by longest path from the roots and
// spreads each level horizontally.
type HierarchicalLayout struct{}

// NewHierarchicalLayout creates the default layout.
func NewHierarchicalLayout() *HierarchicalLayout { return &HierarchicalLayout{} }

// Name implements LayoutStrategy.
func (l *HierarchicalLayout) Name() string { return "hierarchical" }

// Arrange implements LayoutStrategy.
func (l *HierarchicalLayout) Arrange(cells []*Cell, edges []*Edge, collapsed bool) {
	levels := assignLevels(cells, edges)
	perLevel := make(map[int]float64)
	for _, cell := range cells {
		lvl := levels[cell.URN]
		geo := activeSize(collapsed)
		x := perLevel[lvl]
		perLevel[lvl] = x + geo.W + hGapX
		setGeometry(cell, collapsed, x, float64(lvl)*(geo.H+hGapY))
	}
}

// CompactTreeLayout walks the edge tree depth-first, advancing a shared x
// cursor at the leaves. Denser than hierarchical for deep models.
type CompactTreeLayout struct{}

// NewCompactTreeLayout creates the compact strategy.
func NewCompactTreeLayout() *CompactTreeLayout { return &CompactTreeLayout{} }

// Name implements LayoutStrategy.
func (l *CompactTreeLayout) Name() string { return "compact-tree" }

// Arrange implements LayoutStrategy.
func (l *CompactTreeLayout) Arrange(cells []*Cell, edges []*Edge, collapsed bool) {
	children := make(map[string][]string)
	hasParent := make(map[string]bool)
	for _, e := range edges {
		children[e.From] = append(children[e.From], e.To)
		hasParent[e.To] = true
	}

	geo := activeSize(collapsed)
	cursor := 0.0
	visited := make(map[string]bool)
	index := make(map[string]*Cell, len(cells))
	for _, c := range cells {
		index[c.URN] = c
	}

	var place func(urn string, depth int) float64
	place = func(urn string, depth int) float64 {
		cell := index[urn]
		if cell == nil || visited[urn] {
			return cursor
		}
		visited[urn] = true

		kids := children[urn]
		if len(kids) == 0 {
			x := cursor
			cursor += geo.W + hGapX
			setGeometry(cell, collapsed, x, float64(depth)*(geo.H+hGapY))
			return x
		}
		first, last := -1.0, -1.0
		for _, kid := range kids {
			x := place(kid, depth+1)
			if first < 0 {
				first = x
			}
			last = x
		}
		setGeometry(cell, collapsed, (first+last)/2, float64(depth)*(geo.H+hGapY))
		return (first + last) / 2
	}

	for _, c := range cells {
		if !hasParent[c.URN] {
			place(c.URN, 0)
		}
	}
	for _, c := range cells {
		place(c.URN, 0)
	}
}

// LayoutByName resolves a configured strategy name; unknown names fall back
// to hierarchical.
func LayoutByName(name string) LayoutStrategy {
	if name == "compact-tree" {
		return NewCompactTreeLayout()
	}
	return NewHierarchicalLayout()
}

func activeSize(collapsed bool) Geometry {
	if collapsed {
		return collapsedSize
	}
	return expandedSize
}

func setGeometry(cell *Cell, collapsed bool, x, y float64) {
	if collapsed {
		cell.Collapsed.X, cell.Collapsed.Y = x, y
	} else {
		cell.Expanded.X, cell.Expanded.Y = x, y
	}
}

// assignLevels computes each cell's depth as the longest incoming path,
// bounded by the cell count so reference cycles terminate.
func assignLevels(cells []*Cell, edges []*Edge) map[string]int {
	levels := make(map[string]int, len(cells))
	for _, c := range cells {
		levels[c.URN] = 0
	}
	for range cells {
		changed := false
		for _, e := range edges {
			if l := levels[e.From] + 1; l > levels[e.To] && l < len(cells)+1 {
				levels[e.To] = l
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return levels
}
