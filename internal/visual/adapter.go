package visual

import (
	"fmt"

	"aspectstudio/internal/domain"
)

// ChangeOp names a batched visual change.
type ChangeOp string

const (
	OpCellAdded      ChangeOp = "cell_added"
	OpCellUpdated    ChangeOp = "cell_updated"
	OpCellRemoved    ChangeOp = "cell_removed"
	OpEdgeAdded      ChangeOp = "edge_added"
	OpEdgeRemoved    ChangeOp = "edge_removed"
	OpOverlaysSet    ChangeOp = "overlays_set"
	OpLayoutReflowed ChangeOp = "layout_reflowed"
)

// Change is one visual mutation, batched per update transaction.
type Change struct {
	Op     ChangeOp `json:"op"`
	Target string   `json:"target"`
}

// Adapter owns the one-to-one mapping between element URNs and diagram
// cells, and is the only path handlers use for relation bookkeeping: every
// AssignToParent/RemoveCells call keeps the element graph and the visual
// graph in step.
type Adapter struct {
	store *domain.Store

	cells     map[string]*Cell
	cellOrder []string
	edges     map[string]*Edge
	edgeOrder []string

	layout        LayoutStrategy
	collapsedMode bool

	// filtering mode renders a subset without establishing new domain
	// relations as a side effect of attachment.
	filtering bool

	txDepth int
	changes []Change

	// anchorURN is the cell to keep visible across mode toggles.
	anchorURN string
}

// NewAdapter creates an adapter over the store with the given layout.
func NewAdapter(store *domain.Store, layout LayoutStrategy) *Adapter {
	if layout == nil {
		layout = NewHierarchicalLayout()
	}
	return &Adapter{
		store:  store,
		cells:  make(map[string]*Cell),
		edges:  make(map[string]*Edge),
		layout: layout,
	}
}

// Store returns the backing element store.
func (a *Adapter) Store() *domain.Store { return a.store }

// SetFiltering toggles filtering mode.
func (a *Adapter) SetFiltering(on bool) { a.filtering = on }

// BeginUpdate opens a batching transaction. Nested calls are counted; the
// batch is released by the matching outermost EndUpdate.
func (a *Adapter) BeginUpdate() {
	a.txDepth++
}

// EndUpdate closes the transaction and, at the outermost level, returns the
// batched changes so one gesture is observed atomically.
func (a *Adapter) EndUpdate() []Change {
	if a.txDepth > 0 {
		a.txDepth--
	}
	if a.txDepth > 0 {
		return nil
	}
	changes := a.changes
	a.changes = nil
	return changes
}

func (a *Adapter) record(op ChangeOp, target string) {
	a.changes = append(a.changes, Change{Op: op, Target: target})
}

// RenderModelElement creates the cell for an element, or reuses the one
// already indexed for its URN.
func (a *Adapter) RenderModelElement(el domain.ModelElement) *Cell {
	urn := el.Base().URN
	if cell, ok := a.cells[urn]; ok {
		a.syncCell(cell, el)
		return cell
	}
	cell := &Cell{
		URN:       urn,
		Style:     styleFor(el),
		Label:     labelFor(el),
		Tooltip:   tooltipFor(el),
		Expanded:  expandedSize,
		Collapsed: collapsedSize,
		ReadOnly:  !el.Base().Mutable(),
	}
	cell.Overlays = ComputeOverlays(a.store, el)
	a.cells[urn] = cell
	a.cellOrder = append(a.cellOrder, urn)
	a.record(OpCellAdded, urn)
	return cell
}

func (a *Adapter) syncCell(cell *Cell, el domain.ModelElement) {
	label := labelFor(el)
	tooltip := tooltipFor(el)
	if cell.Label != label || cell.Tooltip != tooltip {
		cell.Label = label
		cell.Tooltip = tooltip
		a.record(OpCellUpdated, cell.URN)
	}
}

// ResolveCellByModelElement returns the cell indexed for the element, or nil.
func (a *Adapter) ResolveCellByModelElement(urn string) *Cell {
	return a.cells[urn]
}

// CellURNs returns all indexed cell URNs in creation order.
func (a *Adapter) CellURNs() []string {
	out := make([]string, 0, len(a.cellOrder))
	for _, urn := range a.cellOrder {
		if _, ok := a.cells[urn]; ok {
			out = append(out, urn)
		}
	}
	return out
}

// AssignToParent creates the parent->child edge unless one already exists,
// and, outside filtering mode, establishes the matching element-graph
// relation as a side effect.
func (a *Adapter) AssignToParent(childURN, parentURN, edgeStyle string) error {
	if _, ok := a.cells[parentURN]; !ok {
		return fmt.Errorf("assign to parent: no cell for %s", parentURN)
	}
	if _, ok := a.cells[childURN]; !ok {
		return fmt.Errorf("assign to parent: no cell for %s", childURN)
	}

	id := edgeID(parentURN, childURN)
	if _, ok := a.edges[id]; !ok {
		a.edges[id] = &Edge{ID: id, From: parentURN, To: childURN, Style: edgeStyle}
		a.edgeOrder = append(a.edgeOrder, id)
		a.record(OpEdgeAdded, id)
	}

	if !a.filtering && !a.store.IsLinked(parentURN, childURN) {
		if err := a.store.Link(parentURN, childURN); err != nil {
			return err
		}
	}
	return nil
}

// RemoveEdge drops the parent->child edge if present. The domain relation is
// not touched; callers unlink through the store when the relation itself
// goes away.
func (a *Adapter) RemoveEdge(parentURN, childURN string) {
	id := edgeID(parentURN, childURN)
	if _, ok := a.edges[id]; ok {
		delete(a.edges, id)
		a.edgeOrder = removeStr(a.edgeOrder, id)
		a.record(OpEdgeRemoved, id)
	}
}

// IncomingEdges returns edges arriving at the cell.
func (a *Adapter) IncomingEdges(urn string) []*Edge {
	var out []*Edge
	for _, id := range a.edgeOrder {
		if e, ok := a.edges[id]; ok && e.To == urn {
			out = append(out, e)
		}
	}
	return out
}

// OutgoingEdges returns edges leaving the cell.
func (a *Adapter) OutgoingEdges(urn string) []*Edge {
	var out []*Edge
	for _, id := range a.edgeOrder {
		if e, ok := a.edges[id]; ok && e.From == urn {
			out = append(out, e)
		}
	}
	return out
}

// RemoveCells removes cells and their edges. Every non-external cell is
// first unlinked from all current-file parents/children through the store
// (typed references included), with orphan cascades removed visually too.
// Predefined cells are dropped only when no other parent still references
// the element; the definition itself always survives in the store.
func (a *Adapter) RemoveCells(urns []string, includeEdges bool) {
	for _, urn := range urns {
		cell, ok := a.cells[urn]
		if !ok {
			continue
		}
		el, inStore := a.store.Get(urn)
		if inStore && el.Kind() == domain.KindAspect {
			// the aspect is permanent once created
			continue
		}
		if inStore && el.Base().ExternalRef {
			// external reference elements are never mutated from here
			continue
		}
		if inStore && el.Base().Predefined {
			if len(a.store.Parents(urn)) > 0 {
				continue
			}
			a.dropCell(cell, includeEdges)
			continue
		}

		removed := a.store.Remove(urn)
		if removed == nil {
			removed = []string{urn}
		}
		for _, r := range removed {
			if c, ok := a.cells[r]; ok {
				a.dropCell(c, includeEdges)
			}
		}
	}

	// Predefined cells live only as long as something references them. The
	// store cascade never touches their definitions, so sweep their cells
	// here once the last referencing parent is gone.
	for _, urn := range a.CellURNs() {
		el, ok := a.store.Get(urn)
		if !ok || !el.Base().Predefined {
			continue
		}
		if len(a.store.Parents(urn)) == 0 {
			a.dropCell(a.cells[urn], includeEdges)
		}
	}
	a.RefreshAllOverlays()
}

func (a *Adapter) dropCell(cell *Cell, includeEdges bool) {
	if includeEdges {
		for _, id := range append([]string(nil), a.edgeOrder...) {
			e := a.edges[id]
			if e != nil && (e.From == cell.URN || e.To == cell.URN) {
				delete(a.edges, id)
				a.edgeOrder = removeStr(a.edgeOrder, id)
				a.record(OpEdgeRemoved, id)
			}
		}
	}
	delete(a.cells, cell.URN)
	a.cellOrder = removeStr(a.cellOrder, cell.URN)
	a.record(OpCellRemoved, cell.URN)
}

// RenameCell re-keys the cell and its edges after an element rename. The
// cell instance is kept so geometry and fold state survive.
func (a *Adapter) RenameCell(oldURN, newURN string) {
	cell, ok := a.cells[oldURN]
	if !ok || oldURN == newURN {
		return
	}
	delete(a.cells, oldURN)
	cell.URN = newURN
	a.cells[newURN] = cell
	for i, urn := range a.cellOrder {
		if urn == oldURN {
			a.cellOrder[i] = newURN
		}
	}
	if a.anchorURN == oldURN {
		a.anchorURN = newURN
	}

	for _, id := range append([]string(nil), a.edgeOrder...) {
		e := a.edges[id]
		if e == nil || (e.From != oldURN && e.To != oldURN) {
			continue
		}
		delete(a.edges, id)
		if e.From == oldURN {
			e.From = newURN
		}
		if e.To == oldURN {
			e.To = newURN
		}
		newID := edgeID(e.From, e.To)
		e.ID = newID
		a.edges[newID] = e
		for i, eid := range a.edgeOrder {
			if eid == id {
				a.edgeOrder[i] = newID
			}
		}
	}

	if el, ok := a.store.Get(newURN); ok {
		a.syncCell(cell, el)
	}
	a.record(OpCellUpdated, newURN)
}

// RefreshOverlays recomputes the affordances of the given cells.
func (a *Adapter) RefreshOverlays(urns ...string) {
	for _, urn := range urns {
		cell, ok := a.cells[urn]
		if !ok {
			continue
		}
		el, ok := a.store.Get(urn)
		if !ok {
			continue
		}
		next := ComputeOverlays(a.store, el)
		if !overlaysEqual(cell.Overlays, next) {
			cell.Overlays = next
			a.record(OpOverlaysSet, urn)
		}
	}
}

// RefreshAllOverlays recomputes affordances for every indexed cell. Called
// after structural changes so no stale affordance survives.
func (a *Adapter) RefreshAllOverlays() {
	a.RefreshOverlays(a.CellURNs()...)
}

// SetCollapsedMode switches every cell between its expanded and collapsed
// geometry. The anchor cell set beforehand is preserved for scroll
// restoration.
func (a *Adapter) SetCollapsedMode(collapsed bool) {
	if a.collapsedMode == collapsed {
		return
	}
	a.collapsedMode = collapsed
	for _, urn := range a.CellURNs() {
		a.cells[urn].Folded = collapsed
		a.record(OpCellUpdated, urn)
	}
	a.FormatShapes()
}

// CollapsedMode reports the current display mode.
func (a *Adapter) CollapsedMode() bool { return a.collapsedMode }

// SetAnchor remembers which cell should stay visible across reflows.
func (a *Adapter) SetAnchor(urn string) { a.anchorURN = urn }

// Anchor returns the scroll-restoration cell.
func (a *Adapter) Anchor() string { return a.anchorURN }

// FormatShapes reflows all cells with the configured layout strategy.
func (a *Adapter) FormatShapes() {
	cells := make([]*Cell, 0, len(a.cellOrder))
	for _, urn := range a.CellURNs() {
		cells = append(cells, a.cells[urn])
	}
	edges := make([]*Edge, 0, len(a.edgeOrder))
	for _, id := range a.edgeOrder {
		if e, ok := a.edges[id]; ok {
			edges = append(edges, e)
		}
	}
	a.layout.Arrange(cells, edges, a.collapsedMode)
	a.record(OpLayoutReflowed, a.layout.Name())
}

// SetLayout swaps the layout strategy.
func (a *Adapter) SetLayout(layout LayoutStrategy) {
	if layout != nil {
		a.layout = layout
	}
}

// Layout returns the active layout strategy.
func (a *Adapter) Layout() LayoutStrategy { return a.layout }

// Graph is the serializable snapshot sent to the browser.
type Graph struct {
	Cells []*Cell `json:"cells"`
	Edges []*Edge `json:"edges"`
}

// Snapshot returns the current visual graph in deterministic order.
func (a *Adapter) Snapshot() *Graph {
	g := &Graph{}
	for _, urn := range a.CellURNs() {
		g.Cells = append(g.Cells, a.cells[urn])
	}
	for _, id := range a.edgeOrder {
		if e, ok := a.edges[id]; ok {
			g.Edges = append(g.Edges, e)
		}
	}
	return g
}

// MoveCell places a cell at an explicit canvas position in the current
// display mode. Used when the browser restores or drags cell placements.
func (a *Adapter) MoveCell(urn string, x, y float64) {
	cell, ok := a.cells[urn]
	if !ok {
		return
	}
	if a.collapsedMode {
		cell.Collapsed.X = x
		cell.Collapsed.Y = y
	} else {
		cell.Expanded.X = x
		cell.Expanded.Y = y
	}
	a.record(OpCellUpdated, urn)
}

// SetHighlight updates a cell's validation stroke.
func (a *Adapter) SetHighlight(urn, color string) {
	if cell, ok := a.cells[urn]; ok && cell.Highlight != color {
		cell.Highlight = color
		a.record(OpCellUpdated, urn)
	}
}

// ClearHighlights resets all validation strokes.
func (a *Adapter) ClearHighlights() {
	for _, urn := range a.CellURNs() {
		a.SetHighlight(urn, "")
	}
}

func removeStr(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
