package domain

import "aspectstudio/internal/vocabulary"

// ConstraintClass is the vocabulary class of a constraint.
type ConstraintClass string

const (
	ClassPlainConstraint      ConstraintClass = vocabulary.ClassConstraint
	ClassRangeConstraint      ConstraintClass = vocabulary.ClassRangeConstraint
	ClassLengthConstraint     ConstraintClass = vocabulary.ClassLengthConstraint
	ClassRegularExpression    ConstraintClass = vocabulary.ClassRegularExpression
	ClassEncodingConstraint   ConstraintClass = vocabulary.ClassEncodingConstraint
	ClassLanguageConstraint   ConstraintClass = vocabulary.ClassLanguageConstraint
	ClassLocaleConstraint     ConstraintClass = vocabulary.ClassLocaleConstraint
	ClassFixedPointConstraint ConstraintClass = vocabulary.ClassFixedPointConstraint
)

// Constraint restricts the value space of a trait's base characteristic.
// Constraints are leaves: no child may ever be connected to one.
type Constraint struct {
	BaseElement
	Class ConstraintClass `json:"class"`

	// Subtype fields, used as the class requires.
	MinValue     string `json:"min_value,omitempty"`
	MaxValue     string `json:"max_value,omitempty"`
	Value        string `json:"value,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// NewConstraint creates a constraint of the given class.
func NewConstraint(urn, name string, class ConstraintClass) *Constraint {
	return &Constraint{BaseElement: newBase(urn, name), Class: class}
}

// Kind implements ModelElement.
func (c *Constraint) Kind() Kind { return KindConstraint }
