package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a tool failure for the response envelope.
type ErrorKind string

const (
	ErrorKindNone                  ErrorKind = ""
	ErrorKindInvalidArgument       ErrorKind = "invalid_argument"
	ErrorKindValidation            ErrorKind = "validation_error"
	ErrorKindUnknownTool           ErrorKind = "unknown_tool"
	ErrorKindDuplicateTool         ErrorKind = "duplicate_tool"
	ErrorKindTransientProvider     ErrorKind = "transient_provider_error"
	ErrorKindNoData                ErrorKind = "no_data"
	ErrorKindDependencyUnavailable ErrorKind = "dependency_unavailable"
	ErrorKindToolExecution         ErrorKind = "tool_execution_error"
)

// InvalidArgumentError indicates a malformed caller-supplied value
// (ticker, date, range). Never retried.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return e.Reason
}

// NewInvalidArgument creates an InvalidArgumentError with a formatted reason.
func NewInvalidArgument(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError indicates the raw arguments failed the tool's declared
// input schema. Violations lists every failed constraint, not just the first.
type ValidationError struct {
	ToolName   string
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("invalid arguments for %s: %s", e.ToolName, e.Violations[0])
	}
	msg := fmt.Sprintf("invalid arguments for %s: %d violations", e.ToolName, len(e.Violations))
	for _, v := range e.Violations {
		msg += "; " + v
	}
	return msg
}

// UnknownToolError indicates a dispatch against a name that was never registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// DuplicateToolError indicates a second registration under an existing name.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool already registered: %s", e.Name)
}

// TransientProviderError wraps a provider failure that is likely to succeed
// on retry: rate limiting, 5xx responses, timeouts, connection failures.
type TransientProviderError struct {
	StatusCode int
	Cause      error
}

func (e *TransientProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient provider error (HTTP %d): %v", e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("transient provider error: %v", e.Cause)
}

func (e *TransientProviderError) Unwrap() error {
	return e.Cause
}

// NoDataError indicates the provider responded successfully but had nothing
// for the requested entity. Retrying will not change an empty result.
type NoDataError struct {
	Entity string
	Query  string
}

func (e *NoDataError) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("no data found for %s (%s)", e.Entity, e.Query)
	}
	return fmt.Sprintf("no data found for %s", e.Entity)
}

// DependencyUnavailableError indicates an optional third-party capability is
// not configured. The rest of the tool set stays usable.
type DependencyUnavailableError struct {
	Dependency string
	Hint       string
}

func (e *DependencyUnavailableError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s is not available: %s", e.Dependency, e.Hint)
	}
	return fmt.Sprintf("%s is not available", e.Dependency)
}

// ClassifyError maps an error from a tool execution to its envelope kind.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrorKindNone
	}

	var invalidArg *InvalidArgumentError
	var validation *ValidationError
	var unknown *UnknownToolError
	var duplicate *DuplicateToolError
	var transient *TransientProviderError
	var noData *NoDataError
	var unavailable *DependencyUnavailableError

	switch {
	case errors.As(err, &invalidArg):
		return ErrorKindInvalidArgument
	case errors.As(err, &validation):
		return ErrorKindValidation
	case errors.As(err, &unknown):
		return ErrorKindUnknownTool
	case errors.As(err, &duplicate):
		return ErrorKindDuplicateTool
	case errors.As(err, &transient):
		return ErrorKindTransientProvider
	case errors.As(err, &noData):
		return ErrorKindNoData
	case errors.As(err, &unavailable):
		return ErrorKindDependencyUnavailable
	default:
		return ErrorKindToolExecution
	}
}
