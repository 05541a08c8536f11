package domain

// Operation is a callable with an ordered input property list and a single
// optional output property.
type Operation struct {
	BaseElement
	InputURNs []string `json:"input,omitempty"`
	OutputURN string   `json:"output,omitempty"`
}

// NewOperation creates an operation with no parameters.
func NewOperation(urn, name string) *Operation {
	return &Operation{BaseElement: newBase(urn, name)}
}

// Kind implements ModelElement.
func (o *Operation) Kind() Kind { return KindOperation }

// AddInput appends an input property, ignoring duplicates.
func (o *Operation) AddInput(urn string) {
	if containsString(o.InputURNs, urn) {
		return
	}
	o.InputURNs = append(o.InputURNs, urn)
}

// Event is an occurrence with an ordered property parameter list.
type Event struct {
	BaseElement
	ParameterURNs []string `json:"parameters,omitempty"`
}

// NewEvent creates an event with no parameters.
func NewEvent(urn, name string) *Event {
	return &Event{BaseElement: newBase(urn, name)}
}

// Kind implements ModelElement.
func (e *Event) Kind() Kind { return KindEvent }

// AddParameter appends a parameter property, ignoring duplicates.
func (e *Event) AddParameter(urn string) {
	if containsString(e.ParameterURNs, urn) {
		return
	}
	e.ParameterURNs = append(e.ParameterURNs, urn)
}
