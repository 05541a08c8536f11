package connection

import (
	"fmt"

	"aspectstudio/internal/domain"
)

// handlerFunc applies one legal pair's side effects. Handlers are idempotent:
// connecting an already-connected pair changes nothing.
type handlerFunc func(e *Engine, parent, child domain.ModelElement, info ModelInfo) error

var handlers = map[RuleKind]handlerFunc{
	RulePropertyAbstractProperty: propertyInheritance,
	RulePropertyProperty:         propertyInheritance,
	RulePropertyCharacteristic:   propertyCharacteristic,
	RuleTraitChild:               traitChild,
	RuleEitherCharacteristic:     eitherCharacteristic,
	RuleCollectionCharacteristic: collectionCharacteristic,
	RuleEnumerationEntityValue:   enumerationEntityValue,
	RuleQuantifiableUnit:         quantifiableUnit,
	RuleCharacteristicEntity:     characteristicEntity,
	RuleStructuredValueProperty:  structuredValueProperty,
	RuleEntityInheritance:        entityInheritance,
	RuleEntityProperty:           entityProperty,
	RuleAspectProperty:           aspectProperty,
	RuleAspectOperation:          aspectOperation,
	RuleAspectEvent:              aspectEvent,
	RuleOperationProperty:        operationProperty,
	RuleEventProperty:            eventProperty,
	RuleConstraintChild:          constraintChild,
}

// propertyCharacteristic assigns the characteristic of a property, replacing
// any stale characteristic edge first.
func propertyCharacteristic(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	prop := parent.(*domain.Property)
	childURN := child.Base().URN
	if prop.CharacteristicURN == childURN {
		e.attach(parent, child)
		e.adapter.RefreshOverlays(prop.URN, childURN)
		return nil
	}
	if old := prop.CharacteristicURN; old != "" {
		e.detach(prop.URN, old)
	}
	prop.CharacteristicURN = childURN
	e.attach(parent, child)
	e.adapter.RefreshOverlays(prop.URN, childURN)
	return nil
}

// characteristicEntity assigns an entity as the characteristic's dataType.
// The previous dataType edge is dropped, unit edges are left alone. A value
// list only makes sense against a scalar type, so an enumeration loses its
// literal values, and incoming properties lose their inline example values.
func characteristicEntity(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	char := characteristicOf(parent)
	childURN := child.Base().URN
	if char.DataTypeURN == childURN {
		e.attach(parent, child)
		return nil
	}
	if old := char.DataTypeURN; old != "" && e.store.Has(old) {
		e.detach(char.URN, old)
	}
	char.DataTypeURN = childURN

	if enum, ok := parent.(*domain.Enumeration); ok {
		enum.Values = nil
	}
	for _, parentURN := range e.store.Parents(char.URN) {
		owner, ok := e.store.Get(parentURN)
		if !ok {
			continue
		}
		if p, ok := owner.(*domain.Property); ok && p.ExampleValue != "" {
			p.ExampleValue = ""
		}
	}

	e.attach(parent, child)
	e.adapter.RefreshOverlays(char.URN, childURN)
	return nil
}

// collectionCharacteristic assigns the element characteristic of a
// collection, dropping prior non-entity children when it changes.
func collectionCharacteristic(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	coll := parent.(*domain.Collection)
	childURN := child.Base().URN
	if coll.ElementCharacteristicURN == childURN {
		e.attach(parent, child)
		return nil
	}
	for _, edge := range e.adapter.OutgoingEdges(coll.URN) {
		target, ok := e.store.Get(edge.To)
		if !ok {
			continue
		}
		if _, isEntity := target.(*domain.Entity); isEntity {
			continue
		}
		e.detach(coll.URN, edge.To)
	}
	coll.ElementCharacteristicURN = childURN
	e.attach(parent, child)
	e.adapter.RefreshOverlays(coll.URN, childURN)
	return nil
}

// eitherCharacteristic assigns the left or right slot by ModelInfo. Both
// slots pointing at the same characteristic is rejected here, whichever
// side is being written.
func eitherCharacteristic(e *Engine, parent, child domain.ModelElement, info ModelInfo) error {
	either := parent.(*domain.Either)
	childURN := child.Base().URN

	side := info.EitherSide
	if side == "" {
		// fill the empty slot, left first
		if either.LeftURN == "" {
			side = "left"
		} else {
			side = "right"
		}
	}

	switch side {
	case "left":
		if either.RightURN == childURN {
			return reject(SeverityError, msgEitherSameTarget)
		}
		if either.LeftURN == childURN {
			e.attach(parent, child)
			return nil
		}
		if either.LeftURN != "" {
			e.detach(either.URN, either.LeftURN)
		}
		either.LeftURN = childURN
	case "right":
		if either.LeftURN == childURN {
			return reject(SeverityError, msgEitherSameTarget)
		}
		if either.RightURN == childURN {
			e.attach(parent, child)
			return nil
		}
		if either.RightURN != "" {
			e.detach(either.URN, either.RightURN)
		}
		either.RightURN = childURN
	default:
		return reject(SeverityError, msgCannotConnect)
	}

	e.attach(parent, child)
	e.adapter.RefreshOverlays(either.URN, childURN)
	return nil
}

// traitChild serves both legal trait children through Trait.Update: a
// characteristic becomes the base, a constraint joins the constraints list.
// A second characteristic offered against a set base leaves the trait
// unmodified.
func traitChild(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	trait := parent.(*domain.Trait)
	childURN := child.Base().URN

	if trait.BaseCharacteristicURN == childURN || containsURN(trait.ConstraintURNs, childURN) {
		e.attach(parent, child)
		return nil
	}
	if !trait.Update(child) {
		return reject(SeverityWarning, msgCannotConnect)
	}
	e.attach(parent, child)

	// a trait that just gained its base still needs at least one constraint
	if trait.BaseCharacteristicURN == childURN && len(trait.ConstraintURNs) == 0 {
		name := e.freeName("Constraint")
		constraint := domain.NewConstraint(domain.URNFor(name), name, domain.ClassPlainConstraint)
		if err := e.store.Add(constraint); err == nil {
			trait.Update(constraint)
			e.attach(parent, constraint)
		}
	}
	e.adapter.RefreshOverlays(trait.URN, childURN)
	return nil
}

// quantifiableUnit assigns the unit, replacing a previous unit edge.
func quantifiableUnit(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	quant := parent.(*domain.Quantifiable)
	childURN := child.Base().URN
	if quant.UnitURN == childURN {
		e.attach(parent, child)
		return nil
	}
	if old := quant.UnitURN; old != "" {
		e.detach(quant.URN, old)
	}
	quant.UnitURN = childURN
	e.attach(parent, child)
	return nil
}

// enumerationEntityValue appends an entity value to a complex enumeration.
func enumerationEntityValue(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	enum := parent.(*domain.Enumeration)
	value := child.(*domain.EntityValue)
	if !enum.Complex() {
		return reject(SeverityWarning, msgCannotConnect)
	}
	if value.EntityURN != "" && value.EntityURN != enum.DataTypeURN {
		return reject(SeverityWarning, msgCannotConnect)
	}
	if !containsURN(enum.ValueURNs, value.URN) {
		enum.ValueURNs = append(enum.ValueURNs, value.URN)
	}
	e.attach(parent, child)
	e.adapter.RefreshOverlays(enum.URN, value.URN)
	return nil
}

// structuredValueProperty appends a property reference to the deconstruction
// elements. The property that owns the structured value cannot appear inside
// it.
func structuredValueProperty(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	sv := parent.(*domain.StructuredValue)
	prop := child.(*domain.Property)

	for _, ownerURN := range e.store.Parents(sv.URN) {
		if ownerURN == prop.URN {
			return reject(SeverityWarning, msgCircular)
		}
	}
	if containsURN(sv.PropertyURNs(), prop.URN) {
		e.attach(parent, child)
		return nil
	}
	sv.Elements = append(sv.Elements, domain.StructuredElement{PropertyURN: prop.URN})
	e.attach(parent, child)
	e.adapter.RefreshOverlays(sv.URN, prop.URN)
	return nil
}

// entityProperty adds a property to an entity.
func entityProperty(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	entity := parent.(*domain.Entity)
	entity.AddProperty(child.Base().URN)
	e.attach(parent, child)
	e.adapter.RefreshOverlays(entity.URN, child.Base().URN)
	return nil
}

// aspectProperty adds a property to the aspect.
func aspectProperty(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	aspect := parent.(*domain.Aspect)
	aspect.AddProperty(child.Base().URN)
	e.attach(parent, child)
	e.adapter.RefreshOverlays(aspect.URN, child.Base().URN)
	return nil
}

// aspectOperation adds an operation to the aspect.
func aspectOperation(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	aspect := parent.(*domain.Aspect)
	if !containsURN(aspect.Operations, child.Base().URN) {
		aspect.Operations = append(aspect.Operations, child.Base().URN)
	}
	e.attach(parent, child)
	return nil
}

// aspectEvent adds an event to the aspect.
func aspectEvent(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	aspect := parent.(*domain.Aspect)
	if !containsURN(aspect.Events, child.Base().URN) {
		aspect.Events = append(aspect.Events, child.Base().URN)
	}
	e.attach(parent, child)
	return nil
}

// operationProperty wires a property as operation input or output per
// ModelInfo; output replaces the previous output edge.
func operationProperty(e *Engine, parent, child domain.ModelElement, info ModelInfo) error {
	op := parent.(*domain.Operation)
	childURN := child.Base().URN
	switch info.OperationDirection {
	case "output":
		if op.OutputURN == childURN {
			e.attach(parent, child)
			return nil
		}
		if old := op.OutputURN; old != "" && !containsURN(op.InputURNs, old) {
			e.detach(op.URN, old)
		}
		op.OutputURN = childURN
	default:
		op.AddInput(childURN)
	}
	e.attach(parent, child)
	e.adapter.RefreshOverlays(op.URN, childURN)
	return nil
}

// eventProperty adds a parameter property to an event.
func eventProperty(e *Engine, parent, child domain.ModelElement, _ ModelInfo) error {
	event := parent.(*domain.Event)
	event.AddParameter(child.Base().URN)
	e.attach(parent, child)
	return nil
}

// constraintChild: constraints are leaves, all child connections are a
// silent no-op.
func constraintChild(_ *Engine, _, _ domain.ModelElement, _ ModelInfo) error {
	return nil
}

// characteristicOf returns the embedded characteristic of any characteristic
// subtype.
func characteristicOf(el domain.ModelElement) *domain.Characteristic {
	switch c := el.(type) {
	case *domain.Characteristic:
		return c
	case *domain.Trait:
		return &c.Characteristic
	case *domain.Either:
		return &c.Characteristic
	case *domain.Collection:
		return &c.Characteristic
	case *domain.Enumeration:
		return &c.Characteristic
	case *domain.StructuredValue:
		return &c.Characteristic
	case *domain.Quantifiable:
		return &c.Characteristic
	}
	return nil
}

// freeName finds the first unused name from prefix1, prefix2, ...
func (e *Engine) freeName(prefix string) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d", prefix, i)
		if !e.store.Has(domain.URNFor(name)) {
			return name
		}
	}
}

func containsURN(list []string, urn string) bool {
	for _, v := range list {
		if v == urn {
			return true
		}
	}
	return false
}
