package visual

import (
	"fmt"

	"aspectstudio/internal/domain"
)

// Renderer walks the element graph depth-first and produces or reuses
// adapter cells. A visited set guards against recursive models: an element
// seen earlier in the same traversal is reattached as a child without
// descending into it again.
type Renderer struct {
	adapter *Adapter
	store   *domain.Store
}

// NewRenderer creates a renderer over the adapter.
func NewRenderer(adapter *Adapter) *Renderer {
	return &Renderer{adapter: adapter, store: adapter.Store()}
}

// Render draws the subtree rooted at the element under parentCellURN (empty
// for a root) and returns the root cell.
func (r *Renderer) Render(rootURN, parentCellURN string) (*Cell, error) {
	el, ok := r.store.Get(rootURN)
	if !ok {
		return nil, fmt.Errorf("render %s: not in store", rootURN)
	}
	visited := make(map[string]bool)
	cell := r.render(el, parentCellURN, visited)
	r.adapter.RefreshAllOverlays()
	return cell, nil
}

// RenderModel draws the whole model: the aspect subtree first, then any
// elements not reachable from it.
func (r *Renderer) RenderModel() error {
	visited := make(map[string]bool)
	if aspect, ok := r.store.Aspect(); ok {
		r.render(aspect, "", visited)
	}
	for _, el := range r.store.Elements() {
		urn := el.Base().URN
		if visited[urn] {
			continue
		}
		if el.Base().Predefined && len(r.store.Parents(urn)) == 0 {
			continue
		}
		r.render(el, "", visited)
	}
	r.adapter.RefreshAllOverlays()
	r.adapter.FormatShapes()
	return nil
}

func (r *Renderer) render(el domain.ModelElement, parentCellURN string, visited map[string]bool) *Cell {
	urn := el.Base().URN

	if visited[urn] {
		// already drawn in this traversal: reattach, do not re-descend
		cell := r.adapter.ResolveCellByModelElement(urn)
		if cell != nil && parentCellURN != "" {
			r.adapter.AssignToParent(urn, parentCellURN, "")
		}
		return cell
	}
	visited[urn] = true

	cell := r.adapter.RenderModelElement(el)

	if parentCellURN != "" {
		// freshly created isolated children attach to the rendering parent
		r.adapter.AssignToParent(urn, parentCellURN, "")
	}

	for _, childURN := range domain.ReferencedChildren(el) {
		child, ok := r.store.Get(childURN)
		if !ok {
			continue
		}
		r.render(child, urn, visited)
	}
	return cell
}
