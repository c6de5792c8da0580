package validation

import (
	"fmt"
	"strings"
)

// Kind classifies a validation failure.
type Kind string

// Error kinds reported to clients.
const (
	KindFieldRequired Kind = "field_required"
	KindTypeError     Kind = "type_error"
	KindValidation    Kind = "validation_error"
	KindCoherence     Kind = "data_coherence_error"
)

// Error categories used as keys of the response "errors" object.
const (
	CategoryValidation = "validation"
	CategoryCoherence  = "data_coherence_error"
)

// MessageFieldRequired is the message clients match on for missing fields.
const MessageFieldRequired = "Field required"

// FieldError describes one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Category returns the response category the error is reported under.
func (e FieldError) Category() string {
	if e.Kind == KindCoherence {
		return CategoryCoherence
	}
	return CategoryValidation
}

// Error is returned when a record violates one or more rules. It always
// carries every violation found, never just the first.
type Error struct {
	Schema string
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s record failed validation: %s", e.Schema, strings.Join(parts, "; "))
}

// ByCategory groups the violations by response category.
func (e *Error) ByCategory() map[string][]FieldError {
	grouped := make(map[string][]FieldError)
	for _, f := range e.Fields {
		cat := f.Category()
		grouped[cat] = append(grouped[cat], f)
	}
	return grouped
}

// HasKind reports whether any violation has the given kind.
func (e *Error) HasKind(kind Kind) bool {
	for _, f := range e.Fields {
		if f.Kind == kind {
			return true
		}
	}
	return false
}
