package styles

import (
	"fmt"
	"strings"
)

// CatalogError reports a malformed style catalog.
type CatalogError struct {
	Message string
	Cause   error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("style catalog error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("style catalog error: %s", e.Message)
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// Problem classifies a field error so callers can localize it.
type Problem string

const (
	// ProblemUnknown marks an option the style does not declare.
	ProblemUnknown Problem = "unknown"
	// ProblemUnsupported marks a non-empty option map for a style without options.
	ProblemUnsupported Problem = "unsupported"
	// ProblemFormat marks a value that fails its option type.
	ProblemFormat Problem = "format"
)

// FieldError is a single rejected template option.
type FieldError struct {
	Field   string
	Problem Problem
	Message string
}

// ValidationError lists every rejected template option, sorted by field.
type ValidationError struct {
	Style  string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invalid template options for style %s:", e.Style))
	for _, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", fe.Field, fe.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}
