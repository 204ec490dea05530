// Package diagnostic defines the structured errors and warnings produced
// during a compile, and helpers for collecting and reporting them.
package diagnostic

import (
	"fmt"
	"strings"
)

// Code identifies the kind of problem a diagnostic reports.
// The set is closed: callers switch on these values to decide remediation.
type Code string

const (
	// CodeCircularDependency reports a cycle in the extends graph.
	// Context carries the full cycle path in reference order.
	CodeCircularDependency Code = "CircularDependency"

	// CodePresetNotFound reports an unresolvable preset reference.
	// Context carries the reference and its classified kind.
	CodePresetNotFound Code = "PresetNotFound"

	// CodePluginLoadError reports a plugin that could not be loaded.
	// Non-fatal: the plugin is excluded and compilation continues.
	CodePluginLoadError Code = "PluginLoadError"

	// CodePluginTransformError reports a plugin transform fault. Fatal.
	CodePluginTransformError Code = "PluginTransformError"

	// CodeTypeCoercionError reports a field with the wrong type,
	// e.g. a non-string env value. Fatal; values are never coerced.
	CodeTypeCoercionError Code = "TypeCoercionError"

	// CodeInvalidPermissionFormat reports a permission pattern that does
	// not match the Tool / Tool(pattern) grammar. Fatal.
	CodeInvalidPermissionFormat Code = "InvalidPermissionFormat"

	// CodeSchemaValidationError reports any other violation of the output
	// schema. Fatal.
	CodeSchemaValidationError Code = "SchemaValidationError"
)

// Severity represents the impact of a diagnostic.
type Severity int

const (
	// SeverityError indicates a blocking failure: no output is emitted.
	SeverityError Severity = iota
	// SeverityWarning indicates a non-blocking issue attached to the result.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Diagnostic is a single structured problem found during compilation.
type Diagnostic struct {
	// Code is the taxonomy entry for this diagnostic.
	Code Code `json:"code"`

	// Severity indicates whether the diagnostic blocks emission.
	Severity Severity `json:"severity"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Field identifies the offending field or path (optional).
	Field string `json:"field,omitempty"`

	// Value is the offending value (optional).
	Value any `json:"value,omitempty"`

	// Context carries structured detail (cycle path, reference kind, etc.)
	// so callers can build actionable messages without re-deriving it.
	Context map[string]string `json:"context,omitempty"`

	// Remediation is an optional suggestion for fixing the problem.
	Remediation string `json:"remediation,omitempty"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	var sb strings.Builder
	sb.WriteString(d.Severity.String())
	sb.WriteString(" [")
	sb.WriteString(string(d.Code))
	sb.WriteString("]: ")
	if d.Field != "" {
		sb.WriteString("field \"")
		sb.WriteString(d.Field)
		sb.WriteString("\": ")
	}
	sb.WriteString(d.Message)
	if d.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", d.Value)
	}
	return sb.String()
}

// Errorf builds an error-severity diagnostic with a formatted message.
func Errorf(code Code, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warnf builds a warning-severity diagnostic with a formatted message.
func Warnf(code Code, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
	}
}

// WithField returns a copy of the diagnostic with the field path set.
func (d Diagnostic) WithField(field string) Diagnostic {
	d.Field = field
	return d
}

// WithValue returns a copy of the diagnostic with the offending value set.
func (d Diagnostic) WithValue(value any) Diagnostic {
	d.Value = value
	return d
}

// WithContext returns a copy of the diagnostic with one context entry added.
func (d Diagnostic) WithContext(key, value string) Diagnostic {
	ctx := make(map[string]string, len(d.Context)+1)
	for k, v := range d.Context {
		ctx[k] = v
	}
	ctx[key] = value
	d.Context = ctx
	return d
}

// WithRemediation returns a copy of the diagnostic with a suggestion set.
func (d Diagnostic) WithRemediation(text string) Diagnostic {
	d.Remediation = text
	return d
}

// List aggregates diagnostics collected during one compile.
type List struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Add appends diagnostics to the list.
func (l *List) Add(diags ...Diagnostic) {
	l.Diagnostics = append(l.Diagnostics, diags...)
}

// HasErrors returns true if any diagnostic has SeverityError.
func (l *List) HasErrors() bool {
	if l == nil {
		return false
	}
	for _, d := range l.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns all error-severity diagnostics.
func (l *List) Errors() []Diagnostic {
	if l == nil {
		return nil
	}
	var res []Diagnostic
	for _, d := range l.Diagnostics {
		if d.Severity == SeverityError {
			res = append(res, d)
		}
	}
	return res
}

// Warnings returns all warning-severity diagnostics.
func (l *List) Warnings() []Diagnostic {
	if l == nil {
		return nil
	}
	var res []Diagnostic
	for _, d := range l.Diagnostics {
		if d.Severity == SeverityWarning {
			res = append(res, d)
		}
	}
	return res
}
