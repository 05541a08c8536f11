package domain

import "aspectstudio/internal/vocabulary"

// ReferencedChildren returns the URNs an element references, in declared
// order. This is the traversal order for rendering and serialization; scalar
// datatypes are attributes and do not appear.
func ReferencedChildren(el ModelElement) []string {
	var out []string
	add := func(urns ...string) {
		for _, u := range urns {
			if u != "" {
				out = append(out, u)
			}
		}
	}
	switch e := el.(type) {
	case *Aspect:
		for _, r := range e.Properties {
			add(r.URN)
		}
		add(e.Operations...)
		add(e.Events...)
	case *Property:
		add(e.CharacteristicURN, e.ExtendsURN)
	case *Trait:
		add(e.BaseCharacteristicURN)
		add(e.ConstraintURNs...)
	case *Either:
		add(e.LeftURN, e.RightURN)
	case *Collection:
		add(e.ElementCharacteristicURN)
		addDataType(&out, e.DataTypeURN)
	case *Enumeration:
		addDataType(&out, e.DataTypeURN)
		add(e.ValueURNs...)
	case *StructuredValue:
		add(e.PropertyURNs()...)
	case *Quantifiable:
		addDataType(&out, e.DataTypeURN)
		add(e.UnitURN)
	case *Characteristic:
		addDataType(&out, e.DataTypeURN)
	case *Entity:
		for _, r := range e.Properties {
			add(r.URN)
		}
		add(e.ExtendsURN)
	case *Operation:
		add(e.InputURNs...)
		add(e.OutputURN)
	case *Event:
		add(e.ParameterURNs...)
	case *Unit:
		add(e.ReferenceUnitURN)
		add(e.QuantityKindURNs...)
	case *EntityValue:
		add(e.NestedValueURNs()...)
	case *Constraint, *QuantityKind:
	}
	return out
}

func addDataType(out *[]string, urn string) {
	if urn != "" && !vocabulary.IsScalarType(LocalName(urn)) {
		*out = append(*out, urn)
	}
}
