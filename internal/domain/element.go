package domain

// Kind identifies the concrete type of a model element.
type Kind string

const (
	KindAspect          Kind = "aspect"
	KindProperty        Kind = "property"
	KindCharacteristic  Kind = "characteristic"
	KindTrait           Kind = "trait"
	KindEither          Kind = "either"
	KindCollection      Kind = "collection"
	KindEnumeration     Kind = "enumeration"
	KindStructuredValue Kind = "structured_value"
	KindQuantifiable    Kind = "quantifiable"
	KindEntity          Kind = "entity"
	KindConstraint      Kind = "constraint"
	KindOperation       Kind = "operation"
	KindEvent           Kind = "event"
	KindUnit            Kind = "unit"
	KindQuantityKind    Kind = "quantity_kind"
	KindEntityValue     Kind = "entity_value"
)

// ModelElement is the closed set of element types that make up an aspect
// model. Dispatch sites switch on the concrete type; the isElement marker
// keeps the set closed to this package.
type ModelElement interface {
	Base() *BaseElement
	Kind() Kind
	isElement()
}

// BaseElement carries the named-element fields shared by every kind.
type BaseElement struct {
	URN            string            `json:"urn"`
	Name           string            `json:"name"`
	PreferredNames map[string]string `json:"preferred_names,omitempty"`
	Descriptions   map[string]string `json:"descriptions,omitempty"`
	See            []string          `json:"see,omitempty"`

	// Predefined marks built-in vocabulary elements. They are shared,
	// read-mostly singletons: referenced by many parents, never deleted.
	Predefined bool `json:"predefined,omitempty"`

	// ExternalRef marks elements loaded from another namespace file. They
	// render read-only and are excluded from current-file mutations.
	ExternalRef bool `json:"external_ref,omitempty"`
}

// Base returns the shared named-element fields.
func (b *BaseElement) Base() *BaseElement { return b }

func (b *BaseElement) isElement() {}

// SetPreferredName sets the preferred name for a language tag.
func (b *BaseElement) SetPreferredName(lang, value string) {
	if b.PreferredNames == nil {
		b.PreferredNames = make(map[string]string)
	}
	b.PreferredNames[lang] = value
}

// SetDescription sets the description for a language tag.
func (b *BaseElement) SetDescription(lang, value string) {
	if b.Descriptions == nil {
		b.Descriptions = make(map[string]string)
	}
	b.Descriptions[lang] = value
}

// Mutable reports whether the element belongs to the currently edited file.
func (b *BaseElement) Mutable() bool {
	return !b.Predefined && !b.ExternalRef
}

func newBase(urn, name string) BaseElement {
	return BaseElement{URN: urn, Name: name}
}
