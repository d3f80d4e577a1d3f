// Package compiler runs the external typst toolchain that turns a prepared working directory into a document.
package compiler

import (
	"fmt"
	"time"
)

// CompilationError represents a non-zero exit of the compiler process.
// Diagnostics holds the captured error stream; it is logged and never part of Error().
type CompilationError struct {
	Message     string
	ExitCode    int
	Diagnostics string
	Cause       error
}

func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("compilation error: %s", e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}

// TimeoutError represents a compile that did not finish within the configured bound.
// The process group has been killed when this is returned.
type TimeoutError struct {
	Timeout time.Duration
	Cause   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("compilation timed out after %s", e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// OutputError represents a successful exit that left no readable output file.
type OutputError struct {
	File  string
	Cause error
}

func (e *OutputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("compiler output %s unavailable: %v", e.File, e.Cause)
	}
	return fmt.Sprintf("compiler output %s unavailable", e.File)
}

func (e *OutputError) Unwrap() error {
	return e.Cause
}
