// Package errs classifies the failures that abort a document operation.
//
// Example code raising an error is not represented here: that is data and
// travels in the example's result.
package errs

import (
	"fmt"
	"sort"
	"strings"
)

// Category groups errors by who has to fix them.
type Category string

const (
	// CategoryConfig covers source files, snippets or includes that cannot be
	// found under any configured source root.
	CategoryConfig Category = "config"
	// CategoryExtraction covers block patterns or delimiters that cannot be located.
	CategoryExtraction Category = "extraction"
	// CategoryValidation covers rendered output rejected by a formatting gate.
	CategoryValidation Category = "validation"
)

// Sentinels usable with errors.Is; any *Error of the same category matches.
var (
	ErrConfig     = &Error{category: CategoryConfig}
	ErrExtraction = &Error{category: CategoryExtraction}
	ErrValidation = &Error{category: CategoryValidation}
)

// Error is a categorized error with optional diagnostic context.
type Error struct {
	category Category
	message  string
	cause    error
	context  map[string]any
}

// New creates an error in the given category.
func New(category Category, format string, args ...any) *Error {
	return &Error{category: category, message: fmt.Sprintf(format, args...)}
}

// Config creates a configuration error.
func Config(format string, args ...any) *Error {
	return New(CategoryConfig, format, args...)
}

// Extraction creates an extraction error.
func Extraction(format string, args ...any) *Error {
	return New(CategoryExtraction, format, args...)
}

// Validation creates a validation error.
func Validation(format string, args ...any) *Error {
	return New(CategoryValidation, format, args...)
}

// Error implements the error interface. Context keys are printed sorted so
// messages are stable.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.category, e.message)
	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%v", k, e.context[k])
		}
		sb.WriteString(")")
	}
	if e.cause != nil {
		fmt.Fprintf(&sb, ": %v", e.cause)
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error of the same category.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.category == e.category
}

// Category returns the error category.
func (e *Error) Category() Category {
	return e.category
}

// Message returns the message without context or cause.
func (e *Error) Message() string {
	return e.message
}

// Context returns the value recorded under key.
func (e *Error) Context(key string) (any, bool) {
	v, ok := e.context[key]
	return v, ok
}

// With returns a copy of the error carrying an extra context value.
func (e *Error) With(key string, value any) *Error {
	ctx := make(map[string]any, len(e.context)+1)
	for k, v := range e.context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Error{category: e.category, message: e.message, cause: e.cause, context: ctx}
}

// Wrap returns a copy of the error with cause attached.
func (e *Error) Wrap(cause error) *Error {
	return &Error{category: e.category, message: e.message, cause: cause, context: e.context}
}
