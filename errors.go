// FILE: ycmdconfig/errors.go
package ycmdconfig

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLayerNotFound is returned when an optional layer file does not exist.
	// It is not fatal: the layer is simply skipped.
	ErrLayerNotFound = errors.New("layer file not found")

	// ErrUnknownKey marks an issue for a key that is absent from the schema.
	ErrUnknownKey = errors.New("unknown key")

	// ErrTypeMismatch marks an issue for a value whose kind disagrees with the schema.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrConstraint marks an issue for a value that failed its validator.
	ErrConstraint = errors.New("constraint violation")

	// ErrStructural marks a failure that aborts a whole resolution pass.
	ErrStructural = errors.New("structural error")

	// ErrValueSize is returned when an environment or flag value is too large.
	ErrValueSize = errors.New("value exceeds maximum size")
)

// IssueCode classifies a non-fatal resolution problem.
type IssueCode int

const (
	// IssueUnknownKey is reported for keys that have no schema entry.
	IssueUnknownKey IssueCode = iota
	// IssueTypeMismatch is reported when a value cannot be coerced to its kind.
	IssueTypeMismatch
	// IssueConstraintViolation is reported when a value fails its validator.
	IssueConstraintViolation
)

// String returns the issue code name.
func (c IssueCode) String() string {
	switch c {
	case IssueUnknownKey:
		return "UnknownKey"
	case IssueTypeMismatch:
		return "TypeMismatch"
	case IssueConstraintViolation:
		return "ConstraintViolation"
	default:
		return "Unknown"
	}
}

// Issue is a single non-fatal problem found during a resolution pass.
// Layer names the layer the offending value came from; it is empty for
// values that originate from schema defaults.
type Issue struct {
	Key    string
	Code   IssueCode
	Reason string
	Layer  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	if i.Layer == "" {
		return fmt.Sprintf("%s: %s: %s", i.Code, i.Key, i.Reason)
	}
	return fmt.Sprintf("%s: %s (layer %s): %s", i.Code, i.Key, i.Layer, i.Reason)
}

// Unwrap maps the issue code onto its sentinel error.
func (i Issue) Unwrap() error {
	switch i.Code {
	case IssueUnknownKey:
		return ErrUnknownKey
	case IssueTypeMismatch:
		return ErrTypeMismatch
	case IssueConstraintViolation:
		return ErrConstraint
	}
	return nil
}

// Issues is the ordered list of problems collected by one resolution pass.
type Issues []Issue

// ForKey returns the issues reported for key.
func (is Issues) ForKey(key string) Issues {
	var out Issues
	for _, i := range is {
		if i.Key == key {
			out = append(out, i)
		}
	}
	return out
}

// WithCode returns the issues carrying code.
func (is Issues) WithCode(code IssueCode) Issues {
	var out Issues
	for _, i := range is {
		if i.Code == code {
			out = append(out, i)
		}
	}
	return out
}

// Err joins all issues into one error, or returns nil when there are none.
func (is Issues) Err() error {
	if len(is) == 0 {
		return nil
	}
	errs := make([]error, len(is))
	for n, i := range is {
		errs[n] = i
	}
	return errors.Join(errs...)
}

// String renders one issue per line.
func (is Issues) String() string {
	lines := make([]string, len(is))
	for n, i := range is {
		lines[n] = i.Error()
	}
	return strings.Join(lines, "\n")
}

// StructuralError aborts a resolution pass: a layer is not a well-formed
// mapping, could not be read, or is missing altogether.
type StructuralError struct {
	Layer string
	Path  string
	Err   error
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	where := e.Layer
	if e.Path != "" {
		where = fmt.Sprintf("%s (%s)", e.Layer, e.Path)
	}
	return fmt.Sprintf("structural error in layer %s: %v", where, e.Err)
}

// Unwrap exposes both the cause and ErrStructural to errors.Is.
func (e *StructuralError) Unwrap() []error {
	return []error{ErrStructural, e.Err}
}

func newStructuralError(layer, path string, format string, args ...any) *StructuralError {
	return &StructuralError{Layer: layer, Path: path, Err: fmt.Errorf(format, args...)}
}
