package rdf

import (
	"fmt"
	"strings"

	"aspectstudio/internal/domain"
	"aspectstudio/internal/vocabulary"
)

// Parse reads a Turtle document into a fresh element graph.
func Parse(data []byte) (*domain.Store, error) {
	return ParseInto(data, domain.NewStore(), false)
}

// ParseExternal reads a Turtle document as an external reference file: every
// element is flagged read-only.
func ParseExternal(data []byte) (*domain.Store, error) {
	return ParseInto(data, domain.NewStore(), true)
}

// ParseInto parses into an existing store.
func ParseInto(data []byte, store *domain.Store, external bool) (*domain.Store, error) {
	p := newParser(string(data))
	stmts, err := p.parseDocument()
	if err != nil {
		return nil, fmt.Errorf("parse turtle: %w", err)
	}

	b := &builder{store: store, predef: domain.NewPredefinedRegistry(), external: external}
	for _, stmt := range stmts {
		if err := b.createElement(stmt); err != nil {
			return nil, err
		}
	}
	for _, stmt := range stmts {
		if err := b.fillElement(stmt); err != nil {
			return nil, err
		}
	}
	if err := b.applyLinks(); err != nil {
		return nil, err
	}
	return store, nil
}

type builder struct {
	store    *domain.Store
	predef   *domain.PredefinedRegistry
	external bool
	links    [][2]string // parent, child
}

func (b *builder) createElement(stmt statement) error {
	ns := domain.NamespaceOf(stmt.typeIRI)
	local := domain.LocalName(stmt.typeIRI)
	name := domain.LocalName(stmt.subject)
	urn := stmt.subject

	var el domain.ModelElement
	switch ns {
	case vocabulary.Samm:
		switch local {
		case vocabulary.ClassAspect:
			el = domain.NewAspect(urn, name)
		case vocabulary.ClassProperty:
			el = domain.NewProperty(urn, name)
		case vocabulary.ClassAbstractProp:
			el = domain.NewAbstractProperty(urn, name)
		case vocabulary.ClassCharacteristic:
			el = domain.NewCharacteristic(urn, name)
		case vocabulary.ClassEntity:
			el = domain.NewEntity(urn, name)
		case vocabulary.ClassAbstractEntity:
			el = domain.NewAbstractEntity(urn, name)
		case vocabulary.ClassConstraint:
			el = domain.NewConstraint(urn, name, domain.ClassPlainConstraint)
		case vocabulary.ClassOperation:
			el = domain.NewOperation(urn, name)
		case vocabulary.ClassEvent:
			el = domain.NewEvent(urn, name)
		case vocabulary.ClassUnit:
			el = domain.NewUnit(urn, name)
		case vocabulary.ClassQuantityKind:
			el = domain.NewQuantityKind(urn, name)
		default:
			return fmt.Errorf("unknown samm class %q for %s", local, urn)
		}
	case vocabulary.SammC:
		switch local {
		case vocabulary.ClassTrait:
			el = domain.NewTrait(urn, name)
		case vocabulary.ClassEither:
			el = domain.NewEither(urn, name)
		case vocabulary.ClassCollection, vocabulary.ClassList, vocabulary.ClassSet,
			vocabulary.ClassSortedSet, vocabulary.ClassTimeSeries:
			el = domain.NewCollection(urn, name, domain.CharacteristicClass(local))
		case vocabulary.ClassEnumeration, vocabulary.ClassState:
			e := domain.NewEnumeration(urn, name)
			e.Class = domain.CharacteristicClass(local)
			el = e
		case vocabulary.ClassStructuredValue:
			el = domain.NewStructuredValue(urn, name)
		case vocabulary.ClassQuantifiable, vocabulary.ClassMeasurement, vocabulary.ClassDuration:
			el = domain.NewQuantifiable(urn, name, domain.CharacteristicClass(local))
		case vocabulary.ClassCode, vocabulary.ClassSingleEntity:
			c := domain.NewCharacteristic(urn, name)
			c.Class = domain.CharacteristicClass(local)
			el = c
		default:
			if strings.HasSuffix(local, "Constraint") {
				el = domain.NewConstraint(urn, name, domain.ConstraintClass(local))
			} else {
				c := domain.NewCharacteristic(urn, name)
				c.Class = domain.CharacteristicClass(local)
				el = c
			}
		}
	default:
		// typed by a model-namespace entity: an entity value
		el = domain.NewEntityValue(urn, name, stmt.typeIRI)
		b.addLink(urn, stmt.typeIRI)
	}

	el.Base().ExternalRef = b.external
	if err := b.store.Add(el); err != nil {
		return fmt.Errorf("register %s: %w", urn, err)
	}
	return nil
}

func (b *builder) fillElement(stmt statement) error {
	el, ok := b.store.Get(stmt.subject)
	if !ok {
		return fmt.Errorf("element %s vanished between passes", stmt.subject)
	}

	for _, po := range stmt.preds {
		if b.fillNamed(el, po) {
			continue
		}
		if err := b.fillTyped(el, po); err != nil {
			return fmt.Errorf("%s: %w", stmt.subject, err)
		}
	}
	return nil
}

// fillNamed handles the attributes shared by every element kind.
func (b *builder) fillNamed(el domain.ModelElement, po predObj) bool {
	switch po.pred {
	case vocabulary.Samm + vocabulary.AttrPreferredName:
		lang := po.obj.lang
		if lang == "" {
			lang = "en"
		}
		el.Base().SetPreferredName(lang, po.obj.lit)
		return true
	case vocabulary.Samm + vocabulary.AttrDescription:
		lang := po.obj.lang
		if lang == "" {
			lang = "en"
		}
		el.Base().SetDescription(lang, po.obj.lit)
		return true
	case vocabulary.Samm + vocabulary.AttrSee:
		see := po.obj.iri
		if po.obj.isLit {
			see = po.obj.lit
		}
		el.Base().See = append(el.Base().See, see)
		return true
	}
	return false
}

func (b *builder) fillTyped(el domain.ModelElement, po predObj) error {
	urn := el.Base().URN
	switch e := el.(type) {
	case *domain.Aspect:
		switch po.pred {
		case vocabulary.Samm + vocabulary.AttrProperties:
			refs, err := b.propertyRefs(po.obj)
			if err != nil {
				return err
			}
			e.Properties = refs
			for _, r := range refs {
				b.addLink(urn, r.URN)
			}
		case vocabulary.Samm + vocabulary.AttrOperations:
			e.Operations = b.iriList(po.obj)
			for _, o := range e.Operations {
				b.addLink(urn, o)
			}
		case vocabulary.Samm + vocabulary.AttrEvents:
			e.Events = b.iriList(po.obj)
			for _, ev := range e.Events {
				b.addLink(urn, ev)
			}
		}

	case *domain.Property:
		switch po.pred {
		case vocabulary.Samm + vocabulary.AttrCharacteristic:
			e.CharacteristicURN = b.resolveRef(po.obj.iri)
			b.addLink(urn, e.CharacteristicURN)
		case vocabulary.Samm + vocabulary.AttrExampleValue:
			e.ExampleValue = po.obj.lit
		case vocabulary.Samm + vocabulary.AttrExtends:
			e.ExtendsURN = po.obj.iri
			b.addLink(urn, e.ExtendsURN)
		}

	case *domain.Trait:
		switch po.pred {
		case vocabulary.SammC + vocabulary.AttrBaseCharacteristic:
			e.BaseCharacteristicURN = b.resolveRef(po.obj.iri)
			b.addLink(urn, e.BaseCharacteristicURN)
		case vocabulary.SammC + vocabulary.AttrConstraint:
			e.ConstraintURNs = append(e.ConstraintURNs, po.obj.iri)
			b.addLink(urn, po.obj.iri)
		}

	case *domain.Either:
		switch po.pred {
		case vocabulary.SammC + vocabulary.AttrLeft:
			e.LeftURN = b.resolveRef(po.obj.iri)
			b.addLink(urn, e.LeftURN)
		case vocabulary.SammC + vocabulary.AttrRight:
			e.RightURN = b.resolveRef(po.obj.iri)
			b.addLink(urn, e.RightURN)
		}

	case *domain.Collection:
		switch po.pred {
		case vocabulary.Samm + vocabulary.AttrDataType:
			e.DataTypeURN = po.obj.iri
			b.linkDataType(urn, po.obj.iri)
		case vocabulary.SammC + vocabulary.AttrElementCharacteristic:
			e.ElementCharacteristicURN = b.resolveRef(po.obj.iri)
			b.addLink(urn, e.ElementCharacteristicURN)
		}

	case *domain.Enumeration:
		switch po.pred {
		case vocabulary.Samm + vocabulary.AttrDataType:
			e.DataTypeURN = po.obj.iri
			b.linkDataType(urn, po.obj.iri)
		case vocabulary.SammC + vocabulary.AttrValues:
			for _, item := range po.obj.list {
				if item.isLit {
					e.Values = append(e.Values, item.lit)
				} else {
					e.ValueURNs = append(e.ValueURNs, item.iri)
					b.addLink(urn, item.iri)
				}
			}
		case vocabulary.SammC + vocabulary.AttrDefaultValue:
			if po.obj.isLit {
				e.DefaultValueURN = ""
			} else {
				e.DefaultValueURN = po.obj.iri
			}
		}

	case *domain.StructuredValue:
		switch po.pred {
		case vocabulary.Samm + vocabulary.AttrDataType:
			e.DataTypeURN = po.obj.iri
		case vocabulary.SammC + vocabulary.AttrDeconstructionRule:
			e.DeconstructionRule = po.obj.lit
		case vocabulary.SammC + vocabulary.AttrElements:
			for _, item := range po.obj.list {
				if item.isLit {
					e.Elements = append(e.Elements, domain.StructuredElement{Literal: item.lit})
				} else {
					e.Elements = append(e.Elements, domain.StructuredElement{PropertyURN: item.iri})
					b.addLink(urn, item.iri)
				}
			}
		}

	case *domain.Quantifiable:
		switch po.pred {
		case vocabulary.Samm + vocabulary.AttrDataType:
			e.DataTypeURN = po.obj.iri
			b.linkDataType(urn, po.obj.iri)
		case vocabulary.SammC + vocabulary.AttrUnit:
			e.UnitURN = b.resolveRef(po.obj.iri)
			b.addLink(urn, e.UnitURN)
		}

	case *domain.Characteristic:
		if po.pred == vocabulary.Samm+vocabulary.AttrDataType {
			e.DataTypeURN = po.obj.iri
			b.linkDataType(urn, po.obj.iri)
		}

	case *domain.Entity:
		switch po.pred {
		case vocabulary.Samm + vocabulary.AttrProperties:
			refs, err := b.propertyRefs(po.obj)
			if err != nil {
				return err
			}
			e.Properties = refs
			for _, r := range refs {
				b.addLink(urn, r.URN)
			}
		case vocabulary.Samm + vocabulary.AttrExtends:
			e.ExtendsURN = po.obj.iri
			b.addLink(urn, e.ExtendsURN)
		}

	case *domain.Constraint:
		switch po.pred {
		case vocabulary.SammC + "minValue":
			e.MinValue = po.obj.lit
		case vocabulary.SammC + "maxValue":
			e.MaxValue = po.obj.lit
		case vocabulary.Samm + vocabulary.AttrValue:
			e.Value = po.obj.lit
		case vocabulary.SammC + "languageCode":
			e.LanguageCode = po.obj.lit
		}

	case *domain.Operation:
		switch po.pred {
		case vocabulary.Samm + vocabulary.AttrInput:
			e.InputURNs = b.iriList(po.obj)
			for _, in := range e.InputURNs {
				b.addLink(urn, in)
			}
		case vocabulary.Samm + vocabulary.AttrOutput:
			e.OutputURN = po.obj.iri
			b.addLink(urn, e.OutputURN)
		}

	case *domain.Event:
		if po.pred == vocabulary.Samm+vocabulary.AttrParameters {
			e.ParameterURNs = b.iriList(po.obj)
			for _, param := range e.ParameterURNs {
				b.addLink(urn, param)
			}
		}

	case *domain.Unit:
		switch po.pred {
		case vocabulary.Samm + "symbol":
			e.Symbol = po.obj.lit
		case vocabulary.Samm + "commonCode":
			e.Code = po.obj.lit
		case vocabulary.Samm + "referenceUnit":
			e.ReferenceUnitURN = po.obj.iri
		case vocabulary.Samm + "conversionFactor":
			e.ConversionFactor = po.obj.lit
		case vocabulary.Samm + "quantityKind":
			e.QuantityKindURNs = append(e.QuantityKindURNs, po.obj.iri)
			b.addLink(urn, po.obj.iri)
		}

	case *domain.EntityValue:
		// every remaining predicate is a property assertion
		a := domain.ValueAssertion{PropertyURN: po.pred}
		if po.obj.isLit {
			a.Literal = po.obj.lit
		} else {
			a.ValueURN = po.obj.iri
			b.addLink(urn, po.obj.iri)
		}
		e.SetAssertion(a)

	case *domain.QuantityKind:
	}
	return nil
}

// propertyRefs reads a samm:properties object list, unwrapping blank-node
// entries that carry payload overrides.
func (b *builder) propertyRefs(obj object) ([]domain.PropertyRef, error) {
	if !obj.isList {
		return nil, fmt.Errorf("expected property list")
	}
	refs := make([]domain.PropertyRef, 0, len(obj.list))
	for _, item := range obj.list {
		if !item.isBlank {
			refs = append(refs, domain.PropertyRef{URN: item.iri})
			continue
		}
		var ref domain.PropertyRef
		for _, po := range item.blank {
			switch po.pred {
			case vocabulary.Samm + vocabulary.AttrProperty:
				ref.URN = po.obj.iri
			case vocabulary.Samm + vocabulary.AttrOptional:
				ref.Optional = po.obj.lit == "true"
			case vocabulary.Samm + vocabulary.AttrNotInPayload:
				ref.NotInPayload = po.obj.lit == "true"
			case vocabulary.Samm + vocabulary.AttrPayloadName:
				ref.PayloadName = po.obj.lit
			}
		}
		if ref.URN == "" {
			return nil, fmt.Errorf("property list entry without samm:property")
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (b *builder) iriList(obj object) []string {
	var out []string
	for _, item := range obj.list {
		if item.iri != "" {
			out = append(out, item.iri)
		}
	}
	return out
}

// resolveRef registers referenced predefined vocabulary elements on first
// use so links into samm-c:/unit: resolve inside the store.
func (b *builder) resolveRef(iri string) string {
	if iri == "" || b.store.Has(iri) {
		return iri
	}
	if !domain.IsPredefinedURN(iri) {
		return iri
	}
	local := domain.LocalName(iri)
	if c, ok := b.predef.Characteristic(local); ok {
		b.store.Add(c)
		return c.URN
	}
	if u, ok := b.predef.Unit(local); ok {
		b.store.Add(u)
		return u.URN
	}
	// unknown catalog entry: register a generic predefined placeholder
	switch domain.NamespaceOf(iri) {
	case vocabulary.Unit:
		u := domain.NewUnit(iri, local)
		u.Predefined = true
		b.store.Add(u)
	default:
		c := domain.NewCharacteristic(iri, local)
		c.Predefined = true
		b.store.Add(c)
	}
	return iri
}

// linkDataType records the characteristic->entity relation for complex
// datatypes; scalar datatypes are attributes, not graph children.
func (b *builder) linkDataType(parent, dataType string) {
	if dataType == "" || vocabulary.IsScalarType(domain.LocalName(dataType)) {
		return
	}
	b.addLink(parent, dataType)
}

func (b *builder) addLink(parent, child string) {
	b.links = append(b.links, [2]string{parent, child})
}

func (b *builder) applyLinks() error {
	for _, l := range b.links {
		b.resolveRef(l[1])
		if b.store.Has(l[0]) && b.store.Has(l[1]) {
			if err := b.store.Link(l[0], l[1]); err != nil {
				return err
			}
		}
	}
	return nil
}
