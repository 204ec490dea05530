package diagnostic

import "strings"

// Error adapts a set of diagnostics to the error interface so collaborator
// boundaries that return plain errors (fragment loaders, plugin loaders)
// can carry structured diagnostics through. Callers unwrap with errors.As
// and fold the diagnostics into the compile's list.
type Error struct {
	Diagnostics []Diagnostic
}

// NewError creates an Error from one or more diagnostics.
func NewError(diags ...Diagnostic) *Error {
	return &Error{Diagnostics: diags}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Diagnostics) == 0 {
		return "compile diagnostics"
	}
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "; ")
}
