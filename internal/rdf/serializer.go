package rdf

import (
	"bytes"
	"fmt"
	"sort"

	"aspectstudio/internal/domain"
	"aspectstudio/internal/vocabulary"
)

// Serialize renders the element graph as a Turtle document.
func Serialize(store *domain.Store) ([]byte, error) {
	modelNS := domain.NamespaceOf(domain.URNFor(""))
	if aspect, ok := store.Aspect(); ok {
		modelNS = domain.NamespaceOf(aspect.URN)
	}

	w := &writer{store: store, modelNS: modelNS, visited: make(map[string]bool)}
	w.prefixes()

	if aspect, ok := store.Aspect(); ok {
		w.element(aspect)
	}
	for _, el := range store.Elements() {
		if w.visited[el.Base().URN] || !el.Base().Mutable() {
			continue
		}
		w.element(el)
	}
	return w.buf.Bytes(), nil
}

type writer struct {
	store   *domain.Store
	modelNS string
	buf     bytes.Buffer
	visited map[string]bool
}

func (w *writer) prefixes() {
	fmt.Fprintf(&w.buf, "@prefix : <%s> .\n", w.modelNS)
	fmt.Fprintf(&w.buf, "@prefix %s: <%s> .\n", vocabulary.PrefixSamm, vocabulary.Samm)
	fmt.Fprintf(&w.buf, "@prefix %s: <%s> .\n", vocabulary.PrefixSammC, vocabulary.SammC)
	fmt.Fprintf(&w.buf, "@prefix %s: <%s> .\n", vocabulary.PrefixSammE, vocabulary.SammE)
	fmt.Fprintf(&w.buf, "@prefix %s: <%s> .\n", vocabulary.PrefixUnit, vocabulary.Unit)
	fmt.Fprintf(&w.buf, "@prefix %s: <%s> .\n", vocabulary.PrefixXSD, vocabulary.XSD)
	w.buf.WriteString("\n")
}

// ref renders an IRI as a prefixed name where a known prefix applies.
func (w *writer) ref(iri string) string {
	for _, p := range []struct{ prefix, ns string }{
		{"", w.modelNS},
		{vocabulary.PrefixSamm, vocabulary.Samm},
		{vocabulary.PrefixSammC, vocabulary.SammC},
		{vocabulary.PrefixSammE, vocabulary.SammE},
		{vocabulary.PrefixUnit, vocabulary.Unit},
		{vocabulary.PrefixXSD, vocabulary.XSD},
	} {
		if len(iri) > len(p.ns) && iri[:len(p.ns)] == p.ns {
			return p.prefix + ":" + iri[len(p.ns):]
		}
	}
	return "<" + EscapeIRI(iri) + ">"
}

// element emits one element's statements and then descends into the elements
// it references, in declared order. The visited guard keeps recursive models
// from looping.
func (w *writer) element(el domain.ModelElement) {
	urn := el.Base().URN
	if w.visited[urn] {
		return
	}
	w.visited[urn] = true
	if !el.Base().Mutable() {
		return
	}

	var followups []string
	switch e := el.(type) {
	case *domain.Aspect:
		w.open(urn, vocabulary.PrefixSamm+":"+vocabulary.ClassAspect)
		w.named(e.Base())
		w.propertyList(vocabulary.AttrProperties, e.Properties)
		w.urnList(vocabulary.AttrOperations, e.Operations)
		if len(e.Events) > 0 {
			w.urnList(vocabulary.AttrEvents, e.Events)
		}
		followups = append(followups, refURNs(e.Properties)...)
		followups = append(followups, e.Operations...)
		followups = append(followups, e.Events...)

	case *domain.Property:
		class := vocabulary.ClassProperty
		if e.Abstract {
			class = vocabulary.ClassAbstractProp
		}
		w.open(urn, vocabulary.PrefixSamm+":"+class)
		w.named(e.Base())
		if e.CharacteristicURN != "" {
			w.pred(vocabulary.PrefixSamm+":"+vocabulary.AttrCharacteristic, w.ref(e.CharacteristicURN))
			followups = append(followups, e.CharacteristicURN)
		}
		if e.ExampleValue != "" {
			w.pred(vocabulary.PrefixSamm+":"+vocabulary.AttrExampleValue, quoted(e.ExampleValue))
		}
		if e.ExtendsURN != "" {
			w.pred(vocabulary.PrefixSamm+":"+vocabulary.AttrExtends, w.ref(e.ExtendsURN))
			followups = append(followups, e.ExtendsURN)
		}

	case *domain.Trait:
		w.open(urn, vocabulary.PrefixSammC+":"+vocabulary.ClassTrait)
		w.named(e.Base())
		if e.BaseCharacteristicURN != "" {
			w.pred(vocabulary.PrefixSammC+":"+vocabulary.AttrBaseCharacteristic, w.ref(e.BaseCharacteristicURN))
			followups = append(followups, e.BaseCharacteristicURN)
		}
		for _, c := range e.ConstraintURNs {
			w.pred(vocabulary.PrefixSammC+":"+vocabulary.AttrConstraint, w.ref(c))
			followups = append(followups, c)
		}

	case *domain.Either:
		w.open(urn, vocabulary.PrefixSammC+":"+vocabulary.ClassEither)
		w.named(e.Base())
		if e.LeftURN != "" {
			w.pred(vocabulary.PrefixSammC+":"+vocabulary.AttrLeft, w.ref(e.LeftURN))
			followups = append(followups, e.LeftURN)
		}
		if e.RightURN != "" {
			w.pred(vocabulary.PrefixSammC+":"+vocabulary.AttrRight, w.ref(e.RightURN))
			followups = append(followups, e.RightURN)
		}

	case *domain.Collection:
		w.open(urn, vocabulary.PrefixSammC+":"+string(e.Class))
		w.named(e.Base())
		w.dataType(e.DataTypeURN)
		if e.ElementCharacteristicURN != "" {
			w.pred(vocabulary.PrefixSammC+":"+vocabulary.AttrElementCharacteristic, w.ref(e.ElementCharacteristicURN))
			followups = append(followups, e.ElementCharacteristicURN)
		}
		followups = w.dataTypeFollowup(followups, e.DataTypeURN)

	case *domain.Enumeration:
		w.open(urn, vocabulary.PrefixSammC+":"+string(e.Class))
		w.named(e.Base())
		w.dataType(e.DataTypeURN)
		if len(e.ValueURNs) > 0 {
			items := make([]string, len(e.ValueURNs))
			for i, v := range e.ValueURNs {
				items[i] = w.ref(v)
			}
			w.pred(vocabulary.PrefixSammC+":"+vocabulary.AttrValues, "( "+joinItems(items)+" )")
			followups = append(followups, e.ValueURNs...)
		} else if len(e.Values) > 0 {
			items := make([]string, len(e.Values))
			for i, v := range e.Values {
				items[i] = quoted(v)
			}
			w.pred(vocabulary.PrefixSammC+":"+vocabulary.AttrValues, "( "+joinItems(items)+" )")
		}
		if e.DefaultValueURN != "" {
			w.pred(vocabulary.PrefixSammC+":"+vocabulary.AttrDefaultValue, w.ref(e.DefaultValueURN))
		}
		followups = w.dataTypeFollowup(followups, e.DataTypeURN)

	case *domain.StructuredValue:
		w.open(urn, vocabulary.PrefixSammC+":"+vocabulary.ClassStructuredValue)
		w.named(e.Base())
		w.dataType(e.DataTypeURN)
		if e.DeconstructionRule != "" {
			w.pred(vocabulary.PrefixSammC+":"+vocabulary.AttrDeconstructionRule, quoted(e.DeconstructionRule))
		}
		if len(e.Elements) > 0 {
			items := make([]string, len(e.Elements))
			for i, part := range e.Elements {
				if part.PropertyURN != "" {
					items[i] = w.ref(part.PropertyURN)
				} else {
					items[i] = quoted(part.Literal)
				}
			}
			w.pred(vocabulary.PrefixSammC+":"+vocabulary.AttrElements, "( "+joinItems(items)+" )")
		}
		followups = append(followups, e.PropertyURNs()...)

	case *domain.Quantifiable:
		w.open(urn, vocabulary.PrefixSammC+":"+string(e.Class))
		w.named(e.Base())
		w.dataType(e.DataTypeURN)
		if e.UnitURN != "" {
			w.pred(vocabulary.PrefixSammC+":"+vocabulary.AttrUnit, w.ref(e.UnitURN))
			followups = append(followups, e.UnitURN)
		}
		followups = w.dataTypeFollowup(followups, e.DataTypeURN)

	case *domain.Characteristic:
		prefix := vocabulary.PrefixSamm
		if e.Class != domain.ClassCharacteristic {
			prefix = vocabulary.PrefixSammC
		}
		w.open(urn, prefix+":"+string(e.Class))
		w.named(e.Base())
		w.dataType(e.DataTypeURN)
		followups = w.dataTypeFollowup(followups, e.DataTypeURN)

	case *domain.Entity:
		class := vocabulary.ClassEntity
		if e.Abstract {
			class = vocabulary.ClassAbstractEntity
		}
		w.open(urn, vocabulary.PrefixSamm+":"+class)
		w.named(e.Base())
		w.propertyList(vocabulary.AttrProperties, e.Properties)
		if e.ExtendsURN != "" {
			w.pred(vocabulary.PrefixSamm+":"+vocabulary.AttrExtends, w.ref(e.ExtendsURN))
			followups = append(followups, e.ExtendsURN)
		}
		followups = append(followups, refURNs(e.Properties)...)

	case *domain.Constraint:
		prefix := vocabulary.PrefixSammC
		if e.Class == domain.ClassPlainConstraint {
			prefix = vocabulary.PrefixSamm
		}
		w.open(urn, prefix+":"+string(e.Class))
		w.named(e.Base())
		if e.MinValue != "" {
			w.pred(vocabulary.PrefixSammC+":minValue", quoted(e.MinValue))
		}
		if e.MaxValue != "" {
			w.pred(vocabulary.PrefixSammC+":maxValue", quoted(e.MaxValue))
		}
		if e.Value != "" {
			w.pred(vocabulary.PrefixSamm+":"+vocabulary.AttrValue, quoted(e.Value))
		}
		if e.LanguageCode != "" {
			w.pred(vocabulary.PrefixSammC+":languageCode", quoted(e.LanguageCode))
		}

	case *domain.Operation:
		w.open(urn, vocabulary.PrefixSamm+":"+vocabulary.ClassOperation)
		w.named(e.Base())
		w.urnList(vocabulary.AttrInput, e.InputURNs)
		if e.OutputURN != "" {
			w.pred(vocabulary.PrefixSamm+":"+vocabulary.AttrOutput, w.ref(e.OutputURN))
		}
		followups = append(followups, e.InputURNs...)
		if e.OutputURN != "" {
			followups = append(followups, e.OutputURN)
		}

	case *domain.Event:
		w.open(urn, vocabulary.PrefixSamm+":"+vocabulary.ClassEvent)
		w.named(e.Base())
		w.urnList(vocabulary.AttrParameters, e.ParameterURNs)
		followups = append(followups, e.ParameterURNs...)

	case *domain.Unit:
		w.open(urn, vocabulary.PrefixSamm+":"+vocabulary.ClassUnit)
		w.named(e.Base())
		if e.Symbol != "" {
			w.pred(vocabulary.PrefixSamm+":symbol", quoted(e.Symbol))
		}
		if e.Code != "" {
			w.pred(vocabulary.PrefixSamm+":commonCode", quoted(e.Code))
		}
		if e.ReferenceUnitURN != "" {
			w.pred(vocabulary.PrefixSamm+":referenceUnit", w.ref(e.ReferenceUnitURN))
		}
		if e.ConversionFactor != "" {
			w.pred(vocabulary.PrefixSamm+":conversionFactor", quoted(e.ConversionFactor))
		}
		for _, qk := range e.QuantityKindURNs {
			w.pred(vocabulary.PrefixSamm+":quantityKind", w.ref(qk))
			followups = append(followups, qk)
		}

	case *domain.QuantityKind:
		w.open(urn, vocabulary.PrefixSamm+":"+vocabulary.ClassQuantityKind)
		w.named(e.Base())

	case *domain.EntityValue:
		w.open(urn, w.ref(e.EntityURN))
		for _, a := range e.Assertions {
			obj := quoted(a.Literal)
			if a.ValueURN != "" {
				obj = w.ref(a.ValueURN)
				followups = append(followups, a.ValueURN)
			}
			w.pred(w.ref(a.PropertyURN), obj)
		}
	}

	w.close()

	for _, f := range followups {
		if child, ok := w.store.Get(f); ok {
			w.element(child)
		}
	}
}

func (w *writer) open(urn, class string) {
	fmt.Fprintf(&w.buf, "%s a %s", w.ref(urn), class)
}

func (w *writer) close() {
	w.buf.WriteString(" .\n\n")
}

func (w *writer) pred(predicate, object string) {
	fmt.Fprintf(&w.buf, " ;\n   %s %s", predicate, object)
}

// named emits preferredName/description/see in deterministic language order.
func (w *writer) named(b *domain.BaseElement) {
	for _, lang := range sortedKeys(b.PreferredNames) {
		w.pred(vocabulary.PrefixSamm+":"+vocabulary.AttrPreferredName,
			quoted(b.PreferredNames[lang])+"@"+lang)
	}
	for _, lang := range sortedKeys(b.Descriptions) {
		w.pred(vocabulary.PrefixSamm+":"+vocabulary.AttrDescription,
			quoted(b.Descriptions[lang])+"@"+lang)
	}
	for _, see := range b.See {
		w.pred(vocabulary.PrefixSamm+":"+vocabulary.AttrSee, "<"+EscapeIRI(see)+">")
	}
}

func (w *writer) dataType(urn string) {
	if urn != "" {
		w.pred(vocabulary.PrefixSamm+":"+vocabulary.AttrDataType, w.ref(urn))
	}
}

// dataTypeFollowup queues an entity datatype for emission; scalar datatypes
// need no definition of their own.
func (w *writer) dataTypeFollowup(followups []string, urn string) []string {
	if urn == "" || vocabulary.IsScalarType(domain.LocalName(urn)) {
		return followups
	}
	return append(followups, urn)
}

// propertyList emits samm:properties ( ... ), using a blank node wrapper for
// entries that carry payload overrides.
func (w *writer) propertyList(attr string, refs []domain.PropertyRef) {
	items := make([]string, len(refs))
	for i, ref := range refs {
		if !ref.Optional && !ref.NotInPayload && ref.PayloadName == "" {
			items[i] = w.ref(ref.URN)
			continue
		}
		entry := "[ " + vocabulary.PrefixSamm + ":" + vocabulary.AttrProperty + " " + w.ref(ref.URN)
		if ref.Optional {
			entry += " ; " + vocabulary.PrefixSamm + ":" + vocabulary.AttrOptional + " true"
		}
		if ref.NotInPayload {
			entry += " ; " + vocabulary.PrefixSamm + ":" + vocabulary.AttrNotInPayload + " true"
		}
		if ref.PayloadName != "" {
			entry += " ; " + vocabulary.PrefixSamm + ":" + vocabulary.AttrPayloadName + " " + quoted(ref.PayloadName)
		}
		entry += " ]"
		items[i] = entry
	}
	w.pred(vocabulary.PrefixSamm+":"+attr, "( "+joinItems(items)+" )")
}

func (w *writer) urnList(attr string, urns []string) {
	items := make([]string, len(urns))
	for i, u := range urns {
		items[i] = w.ref(u)
	}
	w.pred(vocabulary.PrefixSamm+":"+attr, "( "+joinItems(items)+" )")
}

func refURNs(refs []domain.PropertyRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.URN
	}
	return out
}

func quoted(s string) string {
	return "\"" + escapeLiteral(s) + "\""
}

func joinItems(items []string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += " "
		}
		out += it
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
