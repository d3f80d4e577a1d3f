// Package generator runs the CV generation pipeline from a request to a compiled document.
package generator

import (
	"fmt"
	"strings"
)

// FieldError names one offending request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	// MessageKey is the catalog key for a localized version of Message.
	MessageKey string `json:"-"`
}

// RequestError represents a request that can never succeed as submitted.
type RequestError struct {
	Message string
	Fields  []FieldError
	Cause   error
	key     string
}

func (e *RequestError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid request: ")
	sb.WriteString(e.Message)
	for _, f := range e.Fields {
		sb.WriteString(fmt.Sprintf("; %s: %s", f.Field, f.Message))
	}
	return sb.String()
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// SafeMessageKey returns the catalog key of the user-visible message.
func (e *RequestError) SafeMessageKey() string {
	if e.key != "" {
		return e.key
	}
	return "cv.invalidRequest"
}

// ProfileReason classifies a ProfileError.
type ProfileReason string

const (
	// ProfileNotFound means the owner has no profile.
	ProfileNotFound ProfileReason = "not_found"
	// ProfileIncomplete means the account lacks data the document needs.
	ProfileIncomplete ProfileReason = "incomplete"
	// ProfileAccessDenied means a referenced resource belongs to another owner.
	ProfileAccessDenied ProfileReason = "access_denied"
)

// ProfileError represents a profile that cannot be used for generation.
type ProfileError struct {
	Reason ProfileReason
	// Fields lists the missing account fields when Reason is ProfileIncomplete.
	Fields []string
	Cause  error
}

func (e *ProfileError) Error() string {
	msg := fmt.Sprintf("profile error: %s", e.Reason)
	if len(e.Fields) > 0 {
		msg += fmt.Sprintf(" (%s)", strings.Join(e.Fields, ", "))
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *ProfileError) Unwrap() error {
	return e.Cause
}

// SafeMessageKey returns the catalog key of the user-visible message.
func (e *ProfileError) SafeMessageKey() string {
	switch e.Reason {
	case ProfileIncomplete:
		return "cv.incompleteProfile"
	case ProfileAccessDenied:
		return "cv.pictureAccessDenied"
	default:
		return "cv.profileNotFound"
	}
}

// CompilationError represents a document the compiler rejected. Diagnostics are only logged.
type CompilationError struct {
	Cause error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("document compilation failed: %v", e.Cause)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}

// SafeMessageKey returns the catalog key of the user-visible message.
func (e *CompilationError) SafeMessageKey() string {
	return "cv.generationFailed"
}

// TimeoutError represents a compiler run that exceeded its bound.
type TimeoutError struct {
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("document generation timed out: %v", e.Cause)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// SafeMessageKey returns the catalog key of the user-visible message.
func (e *TimeoutError) SafeMessageKey() string {
	return "cv.generationTimeout"
}

// ResourceError represents an internal failure: storage, working directory or output handling.
type ResourceError struct {
	Op    string
	Cause error
}

func (e *ResourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resource error: %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("resource error: %s", e.Op)
}

func (e *ResourceError) Unwrap() error {
	return e.Cause
}

// SafeMessageKey returns the catalog key of the user-visible message.
func (e *ResourceError) SafeMessageKey() string {
	return "cv.internalError"
}

// SafeError is implemented by every error kind the pipeline returns.
type SafeError interface {
	error
	SafeMessageKey() string
}
