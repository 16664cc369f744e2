package container

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeServiceNotFound
	ErrCodeCircularDependency
	ErrCodeContainerDisposed
	ErrCodeScopeError
	ErrCodeProviderFailed
	ErrCodeInitializationFailed
	ErrCodeDisposalFailed
	ErrCodeTypeMismatch
	ErrCodeValidationFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:              "UNKNOWN",
	ErrCodeServiceNotFound:      "SERVICE_NOT_FOUND",
	ErrCodeCircularDependency:   "CIRCULAR_DEPENDENCY",
	ErrCodeContainerDisposed:    "CONTAINER_DISPOSED",
	ErrCodeScopeError:           "SCOPE_ERROR",
	ErrCodeProviderFailed:       "PROVIDER_FAILED",
	ErrCodeInitializationFailed: "INITIALIZATION_FAILED",
	ErrCodeDisposalFailed:       "DISPOSAL_FAILED",
	ErrCodeTypeMismatch:         "TYPE_MISMATCH",
	ErrCodeValidationFailed:     "VALIDATION_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

type Error struct {
	Code    ErrorCode
	Message string
	Service string
	Scope   string
	Cause   error
	// Stack is the resolution stack at the point of failure, outermost first.
	Stack []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Service != "" {
		b.WriteString(fmt.Sprintf(" service=%q", e.Service))
	}
	if e.Scope != "" {
		b.WriteString(fmt.Sprintf(" scope=%q", e.Scope))
	}
	if e.Service != "" || e.Scope != "" {
		b.WriteString(":")
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code, so errors.Is walks wrapped
// chains by code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithService(service string) *Error {
	e.Service = service
	return e
}

func (e *Error) WithScope(scope string) *Error {
	e.Scope = scope
	return e
}

func (e *Error) WithStack(stack []string) *Error {
	e.Stack = append([]string(nil), stack...)
	return e
}

func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether any error in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && errors.Is(err, &Error{Code: code})
}

func errServiceNotFound(id string, stack []string) *Error {
	msg := fmt.Sprintf("service %q is not registered", id)
	if len(stack) > 0 {
		msg += fmt.Sprintf(" (required by %s)", stack[len(stack)-1])
	}
	return NewError(ErrCodeServiceNotFound, msg, nil).WithService(id).WithStack(stack)
}

func errCircularDependency(path []string) *Error {
	return NewError(
		ErrCodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(path, " -> ")),
		nil,
	).WithService(path[0]).WithStack(path)
}

func errContainerDisposed() *Error {
	return NewError(ErrCodeContainerDisposed, "container has been disposed", nil)
}

func errScopeRequired(id string) *Error {
	return NewError(
		ErrCodeScopeError,
		fmt.Sprintf("scoped service %q must be resolved within a scope", id),
		nil,
	).WithService(id)
}

func errScopeNotFound(id, scopeID string) *Error {
	return NewError(
		ErrCodeScopeError,
		fmt.Sprintf("scope %q does not exist or has been disposed", scopeID),
		nil,
	).WithService(id).WithScope(scopeID)
}

func errScopeExists(scopeID string) *Error {
	return NewError(
		ErrCodeScopeError,
		fmt.Sprintf("scope %q already exists", scopeID),
		nil,
	).WithScope(scopeID)
}

func errProviderFailed(id string, cause error) *Error {
	return NewError(
		ErrCodeProviderFailed,
		fmt.Sprintf("factory for %q failed", id),
		cause,
	).WithService(id)
}

func errInjectionFailed(id string, cause error) *Error {
	return NewError(
		ErrCodeProviderFailed,
		fmt.Sprintf("dependency injection into %q failed", id),
		cause,
	).WithService(id)
}

func errInitializationFailed(id string, cause error) *Error {
	return NewError(
		ErrCodeInitializationFailed,
		fmt.Sprintf("failed to initialize %q", id),
		cause,
	).WithService(id)
}

func errDisposalFailed(id string, cause error) *Error {
	return NewError(
		ErrCodeDisposalFailed,
		fmt.Sprintf("failed to dispose %q", id),
		cause,
	).WithService(id)
}
