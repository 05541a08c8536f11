package domain

// ValueAssertion binds one property of an entity value to either a scalar
// literal or a nested entity value.
type ValueAssertion struct {
	PropertyURN string `json:"property_urn"`
	Literal     string `json:"literal,omitempty"`
	ValueURN    string `json:"value_urn,omitempty"`
}

// EntityValue is a concrete value of an entity type, used as an
// enumeration/state member. Nested entity values form a tree that must not
// cycle back to an ancestor.
type EntityValue struct {
	BaseElement
	EntityURN  string           `json:"entity_urn"`
	Assertions []ValueAssertion `json:"assertions,omitempty"`
}

// NewEntityValue creates an entity value of the given entity type.
func NewEntityValue(urn, name, entityURN string) *EntityValue {
	return &EntityValue{BaseElement: newBase(urn, name), EntityURN: entityURN}
}

// Kind implements ModelElement.
func (v *EntityValue) Kind() Kind { return KindEntityValue }

// NestedValueURNs returns the URNs of directly nested entity values.
func (v *EntityValue) NestedValueURNs() []string {
	var urns []string
	for _, a := range v.Assertions {
		if a.ValueURN != "" {
			urns = append(urns, a.ValueURN)
		}
	}
	return urns
}

// SetAssertion sets or replaces the assertion for a property.
func (v *EntityValue) SetAssertion(a ValueAssertion) {
	for i := range v.Assertions {
		if v.Assertions[i].PropertyURN == a.PropertyURN {
			v.Assertions[i] = a
			return
		}
	}
	v.Assertions = append(v.Assertions, a)
}
