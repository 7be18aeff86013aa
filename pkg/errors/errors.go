package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a well-known chart error category.
type ErrorCode string

const (
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeInvalidState    ErrorCode = "INVALID_STATE"
	CodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"
	CodeRenderFailure   ErrorCode = "RENDER_FAILURE"
	CodeNotImplemented  ErrorCode = "NOT_IMPLEMENTED"
)

// Sentinels for errors.Is comparisons. ChartError.Is matches on code only,
// so errors.Is(err, ErrInvalidState) holds for any INVALID_STATE error.
var (
	ErrNotFound        = &ChartError{Code: CodeNotFound}
	ErrInvalidState    = &ChartError{Code: CodeInvalidState}
	ErrUnsupportedType = &ChartError{Code: CodeUnsupportedType}
	ErrRenderFailure   = &ChartError{Code: CodeRenderFailure}
	ErrNotImplemented  = &ChartError{Code: CodeNotImplemented}
)

// ChartError is a typed error raised by the chart engine, enriched with
// contextual data for logging.
type ChartError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// New constructs a ChartError.
func New(code ErrorCode, message string, cause error, ctx map[string]interface{}) *ChartError {
	return &ChartError{Code: code, Message: message, Cause: cause, Context: ctx}
}

// NotFound reports a container lookup that resolved to nothing.
func NotFound(key string) *ChartError {
	return New(CodeNotFound, fmt.Sprintf("container %q not found", key), nil, map[string]interface{}{"key": key})
}

// InvalidState reports an operation called out of lifecycle order.
func InvalidState(op string, state string) *ChartError {
	return New(CodeInvalidState, fmt.Sprintf("cannot %s chart in state %s", op, state), nil, map[string]interface{}{
		"operation": op,
		"state":     state,
	})
}

// UnsupportedType reports an unknown chart type, export format or preset.
func UnsupportedType(kind, value string) *ChartError {
	return New(CodeUnsupportedType, fmt.Sprintf("unsupported %s %q", kind, value), nil, map[string]interface{}{kind: value})
}

// RenderFailure wraps a failure raised while fetching data or drawing.
func RenderFailure(chartID string, cause error) *ChartError {
	return New(CodeRenderFailure, "render failed", cause, map[string]interface{}{"chart_id": chartID})
}

// NotImplemented reports a capability left to an extension backend.
func NotImplemented(feature string) *ChartError {
	return New(CodeNotImplemented, fmt.Sprintf("%s is not implemented", feature), nil, map[string]interface{}{"feature": feature})
}

func (e *ChartError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As usage.
func (e *ChartError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is a ChartError with the same code.
func (e *ChartError) Is(target error) bool {
	if e == nil {
		return false
	}
	var chartErr *ChartError
	if !errors.As(target, &chartErr) {
		return false
	}
	return e.Code == chartErr.Code
}

// WithContext clones the error with additional contextual metadata.
func (e *ChartError) WithContext(ctx map[string]interface{}) *ChartError {
	if e == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &ChartError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Context: merged,
	}
}

// CodeOf returns the code of the first ChartError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var chartErr *ChartError
	if errors.As(err, &chartErr) {
		return chartErr.Code
	}
	return ""
}

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration and option validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
