package connection

import "errors"

// Severity grades a rejection for the UI: errors block the gesture, warnings
// and notices inform without blocking anything else.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNotice  Severity = "notice"
)

// RejectionError is a user-facing refusal of a connection gesture. The model
// is guaranteed untouched when one is returned.
type RejectionError struct {
	Severity Severity
	Message  string
}

func (e *RejectionError) Error() string { return e.Message }

func reject(severity Severity, message string) *RejectionError {
	return &RejectionError{Severity: severity, Message: message}
}

// IsRejection reports whether err is a rejection, and returns it typed.
func IsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// Fixed user-facing messages.
const (
	msgSelectTwo        = "select exactly two elements"
	msgCannotConnect    = "elements cannot be connected"
	msgCircular         = "Recursive elements / circular connection"
	msgNeedEntityParent = "one of the properties needs an Entity parent"
	msgChildExtends     = "cannot extend a property that itself extends another element"
	msgEitherSameTarget = "Element right cannot point to the same characteristic as the left element."
	msgExternalRef      = "element belongs to an external reference and cannot be modified"
)
