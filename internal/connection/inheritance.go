package connection

import "aspectstudio/internal/domain"

// entityInheritance wires parent extends child for the entity family. An
// abstract entity may not extend a concrete one. A cycle through the
// prospective target's ancestor chain aborts with no mutation. Extending an
// abstract entity materializes its not-yet-overridden abstract properties on
// the concrete side.
func entityInheritance(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	entity := parent.(*domain.Entity)
	target := child.(*domain.Entity)

	if !entity.Mutable() {
		return reject(SeverityWarning, msgCannotConnect)
	}
	if entity.Abstract && !target.Abstract {
		return reject(SeverityWarning, msgCannotConnect)
	}
	if e.extendsChainReaches(target.URN, entity.URN) {
		return reject(SeverityWarning, msgCircular)
	}

	if entity.ExtendsURN != target.URN {
		if old := entity.ExtendsURN; old != "" {
			e.detach(entity.URN, old)
		}
		entity.ExtendsURN = target.URN
	}
	e.attach(parent, child)

	if target.Abstract {
		e.materializeAbstractProperties(entity, target)
	}
	e.adapter.RefreshOverlays(entity.URN, target.URN)
	return nil
}

// propertyInheritance wires parent extends child for properties. The parent
// needs an entity somewhere above it, and the target may not itself extend
// another element. On success the extending property takes its identity
// from the target: it is renamed to [targetName] and loses its own
// preferred names, descriptions and example value.
func propertyInheritance(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	prop := parent.(*domain.Property)
	target := child.(*domain.Property)

	if !prop.Mutable() {
		return reject(SeverityWarning, msgCannotConnect)
	}
	if prop.ExtendsURN == target.URN {
		e.attach(parent, child)
		return nil
	}
	if !e.hasEntityAncestor(prop.URN) {
		return reject(SeverityError, msgNeedEntityParent)
	}
	if target.Extends() {
		return reject(SeverityError, msgChildExtends)
	}

	if old := prop.ExtendsURN; old != "" {
		e.detach(prop.URN, old)
	}
	prop.ExtendsURN = target.URN

	adapterName := "[" + target.Name + "]"
	if prop.Name != adapterName {
		oldURN := prop.URN
		// a name collision keeps the current name; the extends link holds
		if newURN, err := e.store.Rename(oldURN, adapterName); err == nil {
			e.adapter.RenameCell(oldURN, newURN)
		}
	}
	prop.PreferredNames = nil
	prop.Descriptions = nil
	prop.ExampleValue = ""

	e.attach(parent, child)
	e.adapter.RefreshOverlays(prop.URN, target.URN)
	return nil
}

// materializeAbstractProperties creates a concrete [name] adapter property on
// entity for every abstract property of the extended chain that is not
// already overridden. Re-running against the same extends edge creates
// nothing: existing adapter properties are found by URN before creation.
func (e *Engine) materializeAbstractProperties(entity, base *domain.Entity) {
	for _, ap := range e.abstractPropertiesOf(base) {
		if e.overrides(entity, ap.URN) {
			continue
		}
		adapterName := "[" + ap.Name + "]"
		urn := domain.URNFor(adapterName)

		var placeholder *domain.Property
		if existing, ok := e.store.Get(urn); ok {
			placeholder, ok = existing.(*domain.Property)
			if !ok {
				continue
			}
		} else {
			placeholder = domain.NewProperty(urn, adapterName)
			placeholder.ExtendsURN = ap.URN
			if err := e.store.Add(placeholder); err != nil {
				continue
			}
		}
		if placeholder.ExtendsURN == "" {
			placeholder.ExtendsURN = ap.URN
		}

		entity.AddProperty(placeholder.URN)
		e.attach(entity, placeholder)
		e.attach(placeholder, ap)
	}
}

// abstractPropertiesOf collects the abstract properties declared on the
// entity and every ancestor it extends, in declared order.
func (e *Engine) abstractPropertiesOf(base *domain.Entity) []*domain.Property {
	var out []*domain.Property
	seen := make(map[string]bool)
	for current := base; current != nil; {
		if seen[current.URN] {
			break
		}
		seen[current.URN] = true
		for _, ref := range current.Properties {
			el, ok := e.store.Get(ref.URN)
			if !ok {
				continue
			}
			if p, ok := el.(*domain.Property); ok && p.Abstract {
				out = append(out, p)
			}
		}
		current = e.resolveEntity(current.ExtendsURN)
	}
	return out
}

// overrides reports whether the entity already carries a property extending
// the given abstract property.
func (e *Engine) overrides(entity *domain.Entity, abstractURN string) bool {
	for _, ref := range entity.Properties {
		el, ok := e.store.Get(ref.URN)
		if !ok {
			continue
		}
		if p, ok := el.(*domain.Property); ok && p.ExtendsURN == abstractURN {
			return true
		}
	}
	return false
}

// extendsChainReaches walks from's extends chain and reports whether it
// arrives at to.
func (e *Engine) extendsChainReaches(from, to string) bool {
	seen := make(map[string]bool)
	for current := from; current != "" && !seen[current]; {
		if current == to {
			return true
		}
		seen[current] = true
		entity := e.resolveEntity(current)
		if entity == nil {
			return false
		}
		current = entity.ExtendsURN
	}
	return false
}

// hasEntityAncestor walks the relation graph upward from the element and
// reports whether any ancestor is an entity.
func (e *Engine) hasEntityAncestor(urn string) bool {
	seen := make(map[string]bool)
	queue := []string{urn}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if seen[current] {
			continue
		}
		seen[current] = true
		for _, parentURN := range e.store.Parents(current) {
			if el, ok := e.store.Get(parentURN); ok {
				if _, isEntity := el.(*domain.Entity); isEntity {
					return true
				}
			}
			queue = append(queue, parentURN)
		}
	}
	return false
}

func (e *Engine) resolveEntity(urn string) *domain.Entity {
	if urn == "" {
		return nil
	}
	el, ok := e.store.Get(urn)
	if !ok {
		return nil
	}
	entity, _ := el.(*domain.Entity)
	return entity
}
