// Package rendering prepares the working directory the document compiler runs in.
package rendering

import "fmt"

// TemplateError represents a missing or unreadable template set. Style is empty for errors
// that concern the whole set.
type TemplateError struct {
	Style   string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	msg := "template error"
	if e.Style != "" {
		msg += " (style " + e.Style + ")"
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a failure writing the compiler inputs into the working directory
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
