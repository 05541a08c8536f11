package domain

// Entity is a structured datatype made of properties. Abstract entities are
// not directly instantiable and exist to be extended; extending one
// materializes its abstract properties on the concrete side as [name]
// adapter properties.
type Entity struct {
	BaseElement
	Abstract   bool          `json:"abstract,omitempty"`
	Properties []PropertyRef `json:"properties"`
	ExtendsURN string        `json:"extends,omitempty"`
}

// NewEntity creates a concrete entity.
func NewEntity(urn, name string) *Entity {
	return &Entity{BaseElement: newBase(urn, name)}
}

// NewAbstractEntity creates an abstract entity.
func NewAbstractEntity(urn, name string) *Entity {
	return &Entity{BaseElement: newBase(urn, name), Abstract: true}
}

// Kind implements ModelElement.
func (e *Entity) Kind() Kind { return KindEntity }

// HasProperty reports whether the entity already lists the property.
func (e *Entity) HasProperty(urn string) bool {
	for _, ref := range e.Properties {
		if ref.URN == urn {
			return true
		}
	}
	return false
}

// AddProperty appends a property reference, ignoring duplicates.
func (e *Entity) AddProperty(urn string) {
	if e.HasProperty(urn) {
		return
	}
	e.Properties = append(e.Properties, PropertyRef{URN: urn})
}

// RemoveProperty drops the property reference if present.
func (e *Entity) RemoveProperty(urn string) {
	e.Properties = removePropertyRef(e.Properties, urn)
}
