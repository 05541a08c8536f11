package domain

import "fmt"

// Store is the arena holding every element of the open model, indexed by URN,
// plus the symmetric parent/child relation index. All relation bookkeeping
// goes through Link/Unlink so the two sides can never drift apart.
type Store struct {
	elements map[string]ModelElement
	order    []string

	parents  map[string][]string // child URN -> parent URNs
	children map[string][]string // parent URN -> child URNs
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		elements: make(map[string]ModelElement),
		parents:  make(map[string][]string),
		children: make(map[string][]string),
	}
}

// Add registers an element. The URN must be unused.
func (s *Store) Add(el ModelElement) error {
	urn := el.Base().URN
	if urn == "" {
		return fmt.Errorf("element %q has no URN", el.Base().Name)
	}
	if _, exists := s.elements[urn]; exists {
		return fmt.Errorf("element %s already exists", urn)
	}
	s.elements[urn] = el
	s.order = append(s.order, urn)
	return nil
}

// Get returns the element for a URN.
func (s *Store) Get(urn string) (ModelElement, bool) {
	el, ok := s.elements[urn]
	return el, ok
}

// Has reports whether the URN is registered.
func (s *Store) Has(urn string) bool {
	_, ok := s.elements[urn]
	return ok
}

// Len returns the number of registered elements.
func (s *Store) Len() int { return len(s.elements) }

// Elements returns all elements in insertion order.
func (s *Store) Elements() []ModelElement {
	out := make([]ModelElement, 0, len(s.order))
	for _, urn := range s.order {
		if el, ok := s.elements[urn]; ok {
			out = append(out, el)
		}
	}
	return out
}

// Aspect returns the model root, if one exists.
func (s *Store) Aspect() (*Aspect, bool) {
	for _, urn := range s.order {
		if a, ok := s.elements[urn].(*Aspect); ok {
			return a, true
		}
	}
	return nil, false
}

// Link records parent->child. Both URNs must be registered; relinking an
// existing pair is a no-op.
func (s *Store) Link(parentURN, childURN string) error {
	if !s.Has(parentURN) {
		return fmt.Errorf("link parent %s: not in store", parentURN)
	}
	if !s.Has(childURN) {
		return fmt.Errorf("link child %s: not in store", childURN)
	}
	if containsString(s.children[parentURN], childURN) {
		return nil
	}
	if _, ok := s.elements[parentURN].(*EntityValue); ok {
		if child, ok := s.elements[childURN].(*EntityValue); ok {
			// nested entity values form a tree, never a cycle
			if s.valueReaches(child, parentURN) {
				return fmt.Errorf("entity value %s: nested values cycle back to %s", childURN, parentURN)
			}
		}
	}
	s.children[parentURN] = append(s.children[parentURN], childURN)
	s.parents[childURN] = append(s.parents[childURN], parentURN)
	return nil
}

// valueReaches walks nested entity value assertions from start, reporting
// whether target is reachable. Start counts as reached, covering self links.
func (s *Store) valueReaches(start *EntityValue, target string) bool {
	seen := make(map[string]bool)
	queue := []string{start.URN}
	for len(queue) > 0 {
		urn := queue[0]
		queue = queue[1:]
		if urn == target {
			return true
		}
		if seen[urn] {
			continue
		}
		seen[urn] = true
		if v, ok := s.elements[urn].(*EntityValue); ok {
			queue = append(queue, v.NestedValueURNs()...)
		}
	}
	return false
}

// Unlink removes parent->child on both sides. Unknown pairs are a no-op.
func (s *Store) Unlink(parentURN, childURN string) {
	s.children[parentURN] = removeString(s.children[parentURN], childURN)
	s.parents[childURN] = removeString(s.parents[childURN], parentURN)
}

// IsLinked reports whether parent->child is recorded.
func (s *Store) IsLinked(parentURN, childURN string) bool {
	return containsString(s.children[parentURN], childURN)
}

// Parents returns the parent URNs of an element.
func (s *Store) Parents(urn string) []string {
	return append([]string(nil), s.parents[urn]...)
}

// Children returns the child URNs of an element.
func (s *Store) Children(urn string) []string {
	return append([]string(nil), s.children[urn]...)
}

// Isolated reports whether the element has no relations yet.
func (s *Store) Isolated(urn string) bool {
	return len(s.parents[urn]) == 0 && len(s.children[urn]) == 0
}

// Remove deletes an element: it is first unlinked from every parent and
// child (clearing the parents' typed reference fields), then dropped from
// the arena. Entity values and characteristics that lose their last parent
// are cascaded. Predefined element definitions are never removed.
// Returns the URNs actually removed.
func (s *Store) Remove(urn string) []string {
	el, ok := s.elements[urn]
	if !ok {
		return nil
	}
	if el.Base().Predefined {
		return nil
	}

	for _, parentURN := range s.Parents(urn) {
		if parent, ok := s.elements[parentURN]; ok && parent.Base().Mutable() {
			detachReference(parent, urn)
		}
		s.Unlink(parentURN, urn)
	}

	orphanCandidates := s.Children(urn)
	for _, childURN := range orphanCandidates {
		s.Unlink(urn, childURN)
	}
	detachAllReferences(el)

	delete(s.elements, urn)
	delete(s.parents, urn)
	delete(s.children, urn)
	removed := []string{urn}

	for _, childURN := range orphanCandidates {
		child, ok := s.elements[childURN]
		if !ok || !child.Base().Mutable() {
			continue
		}
		if len(s.parents[childURN]) > 0 {
			continue
		}
		if child.Kind() == KindEntityValue || IsCharacteristic(child) {
			removed = append(removed, s.Remove(childURN)...)
		}
	}
	return removed
}

// Rename changes an element's local name, reindexing the store and rewriting
// every reference to its URN. Returns the new URN.
func (s *Store) Rename(urn, newName string) (string, error) {
	el, ok := s.elements[urn]
	if !ok {
		return "", fmt.Errorf("rename %s: not in store", urn)
	}
	if !el.Base().Mutable() {
		return "", fmt.Errorf("rename %s: element is read-only", urn)
	}
	newURN := RenamedURN(urn, newName)
	if newURN == urn {
		el.Base().Name = newName
		return urn, nil
	}
	if s.Has(newURN) {
		return "", fmt.Errorf("rename %s: %s already exists", urn, newURN)
	}

	el.Base().URN = newURN
	el.Base().Name = newName
	delete(s.elements, urn)
	s.elements[newURN] = el
	for i, o := range s.order {
		if o == urn {
			s.order[i] = newURN
		}
	}

	s.parents[newURN] = s.parents[urn]
	delete(s.parents, urn)
	s.children[newURN] = s.children[urn]
	delete(s.children, urn)
	for _, list := range [2]map[string][]string{s.parents, s.children} {
		for key, urns := range list {
			for i, u := range urns {
				if u == urn {
					list[key][i] = newURN
				}
			}
		}
	}

	for _, other := range s.elements {
		rewriteReferences(other, urn, newURN)
	}
	return newURN, nil
}

// DuplicatePropertyName reports whether another property in the owner's list
// already carries the effective name. The effective name is the payload-name
// override when set, the element name otherwise.
func (s *Store) DuplicatePropertyName(ownerURN, name, excludeURN string) bool {
	owner, ok := s.elements[ownerURN]
	if !ok {
		return false
	}
	var refs []PropertyRef
	switch el := owner.(type) {
	case *Aspect:
		refs = el.Properties
	case *Entity:
		refs = el.Properties
	default:
		return false
	}
	for _, ref := range refs {
		if ref.URN == excludeURN {
			continue
		}
		effective := ref.PayloadName
		if effective == "" {
			if prop, ok := s.elements[ref.URN]; ok {
				effective = prop.Base().Name
			} else {
				effective = LocalName(ref.URN)
			}
		}
		if effective == name {
			return true
		}
	}
	return false
}

// detachReference clears the parent's typed field(s) pointing at childURN.
func detachReference(parent ModelElement, childURN string) {
	switch el := parent.(type) {
	case *Aspect:
		el.RemoveProperty(childURN)
		el.Operations = removeString(el.Operations, childURN)
		el.Events = removeString(el.Events, childURN)
	case *Property:
		if el.CharacteristicURN == childURN {
			el.CharacteristicURN = ""
		}
		if el.ExtendsURN == childURN {
			el.ExtendsURN = ""
		}
	case *Trait:
		if el.BaseCharacteristicURN == childURN {
			el.BaseCharacteristicURN = ""
		}
		el.ConstraintURNs = removeString(el.ConstraintURNs, childURN)
		if el.DataTypeURN == childURN {
			el.DataTypeURN = ""
		}
	case *Either:
		if el.LeftURN == childURN {
			el.LeftURN = ""
		}
		if el.RightURN == childURN {
			el.RightURN = ""
		}
		if el.DataTypeURN == childURN {
			el.DataTypeURN = ""
		}
	case *Collection:
		if el.ElementCharacteristicURN == childURN {
			el.ElementCharacteristicURN = ""
		}
		if el.DataTypeURN == childURN {
			el.DataTypeURN = ""
		}
	case *Enumeration:
		el.ValueURNs = removeString(el.ValueURNs, childURN)
		if el.DefaultValueURN == childURN {
			el.DefaultValueURN = ""
		}
		if el.DataTypeURN == childURN {
			el.DataTypeURN = ""
		}
	case *StructuredValue:
		kept := el.Elements[:0]
		for _, part := range el.Elements {
			if part.PropertyURN != childURN {
				kept = append(kept, part)
			}
		}
		el.Elements = kept
		if el.DataTypeURN == childURN {
			el.DataTypeURN = ""
		}
	case *Quantifiable:
		if el.UnitURN == childURN {
			el.UnitURN = ""
		}
		if el.DataTypeURN == childURN {
			el.DataTypeURN = ""
		}
	case *Characteristic:
		if el.DataTypeURN == childURN {
			el.DataTypeURN = ""
		}
	case *Entity:
		el.RemoveProperty(childURN)
		if el.ExtendsURN == childURN {
			el.ExtendsURN = ""
		}
	case *Operation:
		el.InputURNs = removeString(el.InputURNs, childURN)
		if el.OutputURN == childURN {
			el.OutputURN = ""
		}
	case *Event:
		el.ParameterURNs = removeString(el.ParameterURNs, childURN)
	case *Unit:
		if el.ReferenceUnitURN == childURN {
			el.ReferenceUnitURN = ""
		}
		el.QuantityKindURNs = removeString(el.QuantityKindURNs, childURN)
	case *EntityValue:
		if el.EntityURN == childURN {
			el.EntityURN = ""
		}
		kept := el.Assertions[:0]
		for _, a := range el.Assertions {
			if a.ValueURN != childURN && a.PropertyURN != childURN {
				kept = append(kept, a)
			}
		}
		el.Assertions = kept
	case *Constraint, *QuantityKind:
		// leaves, nothing to detach
	}
}

// detachAllReferences clears every outgoing typed reference of an element
// about to be removed, so no dangling URN survives in a recycled value.
func detachAllReferences(el ModelElement) {
	switch e := el.(type) {
	case *Aspect:
		e.Properties, e.Operations, e.Events = nil, nil, nil
	case *Property:
		e.CharacteristicURN, e.ExtendsURN = "", ""
	case *Trait:
		e.BaseCharacteristicURN, e.DataTypeURN = "", ""
		e.ConstraintURNs = nil
	case *Either:
		e.LeftURN, e.RightURN, e.DataTypeURN = "", "", ""
	case *Collection:
		e.ElementCharacteristicURN, e.DataTypeURN = "", ""
	case *Enumeration:
		e.ValueURNs, e.Values = nil, nil
		e.DefaultValueURN, e.DataTypeURN = "", ""
	case *StructuredValue:
		e.Elements, e.DataTypeURN = nil, ""
	case *Quantifiable:
		e.UnitURN, e.DataTypeURN = "", ""
	case *Characteristic:
		e.DataTypeURN = ""
	case *Entity:
		e.Properties = nil
		e.ExtendsURN = ""
	case *Operation:
		e.InputURNs = nil
		e.OutputURN = ""
	case *Event:
		e.ParameterURNs = nil
	case *Unit:
		e.ReferenceUnitURN = ""
		e.QuantityKindURNs = nil
	case *EntityValue:
		e.EntityURN = ""
		e.Assertions = nil
	case *Constraint, *QuantityKind:
	}
}

// rewriteReferences replaces every occurrence of oldURN with newURN in the
// element's typed reference fields.
func rewriteReferences(el ModelElement, oldURN, newURN string) {
	swap := func(s *string) {
		if *s == oldURN {
			*s = newURN
		}
	}
	swapList := func(list []string) {
		for i := range list {
			if list[i] == oldURN {
				list[i] = newURN
			}
		}
	}
	swapRefs := func(refs []PropertyRef) {
		for i := range refs {
			if refs[i].URN == oldURN {
				refs[i].URN = newURN
			}
		}
	}
	switch e := el.(type) {
	case *Aspect:
		swapRefs(e.Properties)
		swapList(e.Operations)
		swapList(e.Events)
	case *Property:
		swap(&e.CharacteristicURN)
		swap(&e.ExtendsURN)
	case *Trait:
		swap(&e.BaseCharacteristicURN)
		swap(&e.DataTypeURN)
		swapList(e.ConstraintURNs)
	case *Either:
		swap(&e.LeftURN)
		swap(&e.RightURN)
		swap(&e.DataTypeURN)
	case *Collection:
		swap(&e.ElementCharacteristicURN)
		swap(&e.DataTypeURN)
	case *Enumeration:
		swapList(e.ValueURNs)
		swap(&e.DefaultValueURN)
		swap(&e.DataTypeURN)
	case *StructuredValue:
		for i := range e.Elements {
			if e.Elements[i].PropertyURN == oldURN {
				e.Elements[i].PropertyURN = newURN
			}
		}
		swap(&e.DataTypeURN)
	case *Quantifiable:
		swap(&e.UnitURN)
		swap(&e.DataTypeURN)
	case *Characteristic:
		swap(&e.DataTypeURN)
	case *Entity:
		swapRefs(e.Properties)
		swap(&e.ExtendsURN)
	case *Operation:
		swapList(e.InputURNs)
		swap(&e.OutputURN)
	case *Event:
		swapList(e.ParameterURNs)
	case *Unit:
		swap(&e.ReferenceUnitURN)
		swapList(e.QuantityKindURNs)
	case *EntityValue:
		swap(&e.EntityURN)
		for i := range e.Assertions {
			if e.Assertions[i].PropertyURN == oldURN {
				e.Assertions[i].PropertyURN = newURN
			}
			if e.Assertions[i].ValueURN == oldURN {
				e.Assertions[i].ValueURN = newURN
			}
		}
	case *Constraint, *QuantityKind:
	}
}
