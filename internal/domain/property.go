package domain

// Property describes a single named value of an aspect or entity. Abstract
// properties carry no characteristic and exist to be extended by concrete
// properties.
type Property struct {
	BaseElement
	Abstract          bool   `json:"abstract,omitempty"`
	CharacteristicURN string `json:"characteristic,omitempty"`
	ExampleValue      string `json:"example_value,omitempty"`

	// ExtendsURN points at the abstract property or plain property this
	// property extends. An extending property inherits identity from its
	// target: its effective name is [targetName].
	ExtendsURN string `json:"extends,omitempty"`
}

// NewProperty creates a concrete property.
func NewProperty(urn, name string) *Property {
	return &Property{BaseElement: newBase(urn, name)}
}

// NewAbstractProperty creates an abstract property.
func NewAbstractProperty(urn, name string) *Property {
	return &Property{BaseElement: newBase(urn, name), Abstract: true}
}

// Kind implements ModelElement.
func (p *Property) Kind() Kind { return KindProperty }

// Extends reports whether the property already extends another element.
func (p *Property) Extends() bool { return p.ExtendsURN != "" }
