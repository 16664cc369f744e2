package kiln

import (
	"fmt"

	"github.com/danpasecinic/kiln/internal/container"
)

type (
	Error     = container.Error
	ErrorCode = container.ErrorCode
)

const (
	ErrCodeUnknown              = container.ErrCodeUnknown
	ErrCodeServiceNotFound      = container.ErrCodeServiceNotFound
	ErrCodeCircularDependency   = container.ErrCodeCircularDependency
	ErrCodeContainerDisposed    = container.ErrCodeContainerDisposed
	ErrCodeScopeError           = container.ErrCodeScopeError
	ErrCodeProviderFailed       = container.ErrCodeProviderFailed
	ErrCodeInitializationFailed = container.ErrCodeInitializationFailed
	ErrCodeDisposalFailed       = container.ErrCodeDisposalFailed
	ErrCodeTypeMismatch         = container.ErrCodeTypeMismatch
	ErrCodeValidationFailed     = container.ErrCodeValidationFailed
)

func errTypeMismatch(id, want, got string) *Error {
	return container.NewError(
		ErrCodeTypeMismatch,
		fmt.Sprintf("expected %s, got %s", want, got),
		nil,
	).WithService(id)
}

func errNotDeclared(id string) *Error {
	return container.NewError(
		ErrCodeServiceNotFound,
		fmt.Sprintf("%q is not a declared dependency", id),
		nil,
	).WithService(id)
}

func IsNotFound(err error) bool {
	return container.HasCode(err, ErrCodeServiceNotFound)
}

func IsCircularDependency(err error) bool {
	return container.HasCode(err, ErrCodeCircularDependency)
}

func IsContainerDisposed(err error) bool {
	return container.HasCode(err, ErrCodeContainerDisposed)
}

func IsScopeError(err error) bool {
	return container.HasCode(err, ErrCodeScopeError)
}

func IsProviderFailed(err error) bool {
	return container.HasCode(err, ErrCodeProviderFailed)
}

func IsInitializationFailed(err error) bool {
	return container.HasCode(err, ErrCodeInitializationFailed)
}

func IsTypeMismatch(err error) bool {
	return container.HasCode(err, ErrCodeTypeMismatch)
}

func IsValidationFailed(err error) bool {
	return container.HasCode(err, ErrCodeValidationFailed)
}
