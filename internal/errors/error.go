package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryRuntime    Category = "runtime"
	CategoryDestructor Category = "destructor"
	CategoryHydration  Category = "hydration"
	CategoryBackend    Category = "backend"
	CategoryRouting    Category = "routing"
)

// LumenError is a structured error with a registered code.
type LumenError struct {
	// Code is a unique error identifier (e.g., "L001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer, call-site specific explanation.
	Detail string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *LumenError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *LumenError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same code.
func (e *LumenError) Is(target error) bool {
	t, ok := target.(*LumenError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithDetail adds a detailed explanation to the error.
func (e *LumenError) WithDetail(d string) *LumenError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *LumenError) WithDetailf(format string, args ...any) *LumenError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *LumenError) Wrap(err error) *LumenError {
	e.Wrapped = err
	return e
}

// New creates a LumenError from a registered error code.
func New(code string) *LumenError {
	template, ok := registry[code]
	if !ok {
		return &LumenError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &LumenError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new LumenError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *LumenError {
	return &LumenError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a LumenError.
func FromError(err error, code string) *LumenError {
	if err == nil {
		return nil
	}
	var le *LumenError
	if stderrors.As(err, &le) {
		return le
	}
	return New(code).Wrap(err)
}

// Aggregate joins errs into a single destructor error.
// It returns nil when errs holds no non-nil error and the
// error itself when exactly one is present.
func Aggregate(errs []error) error {
	var live []error
	for _, err := range errs {
		if err != nil {
			live = append(live, err)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return New("L011").WithDetailf("%d destructors failed", len(live)).Wrap(stderrors.Join(live...))
}

// CategoryOf returns the category of the first LumenError in err's chain.
func CategoryOf(err error) Category {
	var le *LumenError
	if stderrors.As(err, &le) {
		return le.Category
	}
	return ""
}
