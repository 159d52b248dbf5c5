package sendable

import (
	"errors"
	"fmt"
)

// Error names and codes reported by shared collections.
const (
	NameBusinessError = "BusinessError"
	NameTypeError     = "TypeError"
	NameRangeError    = "RangeError"

	CodeParam                  = 401
	CodeRange                  = 10200001
	CodeBind                   = 10200011
	CodeConcurrentModification = 10200201
)

// Error is the error value returned by every shared collection
// operation. Errors with the same Name and Code match each other
// under errors.Is regardless of message, so callers test against
// the exported sentinels:
//
//	if errors.Is(err, sendable.ErrConcurrentModification) { ... }
type Error struct {
	Name    string
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return e.Name + ": " + e.Message
	}
	return fmt.Sprintf("%s(%d): %s", e.Name, e.Code, e.Message)
}

// Is reports whether target is an *Error with the same name and code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Name == t.Name && e.Code == t.Code
}

var (
	// ErrConcurrentModification is returned when an access overlaps a
	// conflicting access on the same collection.
	ErrConcurrentModification = &Error{
		Name:    NameBusinessError,
		Code:    CodeConcurrentModification,
		Message: "Concurrent modification exception",
	}
	// ErrBind is returned when a method is invoked on a receiver of the
	// wrong kind.
	ErrBind = &Error{Name: NameBusinessError, Code: CodeBind}
	// ErrParam is returned for non-sendable arguments and invalid
	// parameters.
	ErrParam = &Error{Name: NameBusinessError, Code: CodeParam}
	// ErrRange is returned for out-of-range indices.
	ErrRange = &Error{Name: NameBusinessError, Code: CodeRange}
	// ErrType is returned for non-callable callbacks, non-iterable
	// inputs and unhashable keys.
	ErrType = &Error{Name: NameTypeError}
	// ErrBounds is returned for typed array lengths, offsets and indices
	// that fall outside the array.
	ErrBounds = &Error{Name: NameRangeError}
)

const (
	msgNotSendable    = "Parameter error.Only accept sendable value."
	msgInvalidLength  = "Parameter error.Invalid array length."
	msgNotEnoughParam = "Parameter error.Not enough parameters."
)

func newConcurrentModificationError() error {
	return &Error{
		Name:    NameBusinessError,
		Code:    CodeConcurrentModification,
		Message: ErrConcurrentModification.Message,
	}
}

func newBindError(method string) error {
	return &Error{
		Name:    NameBusinessError,
		Code:    CodeBind,
		Message: "The " + method + " method cannot be bound.",
	}
}

func newBindErrorf(format string, args ...any) error {
	return &Error{Name: NameBusinessError, Code: CodeBind, Message: fmt.Sprintf(format, args...)}
}

func newParamError(msg string) error {
	return &Error{Name: NameBusinessError, Code: CodeParam, Message: msg}
}

func newRangeError(msg string) error {
	return &Error{Name: NameBusinessError, Code: CodeRange, Message: msg}
}

func newBoundsError(msg string) error {
	return &Error{Name: NameRangeError, Message: msg}
}

func newTypeError(msg string) error {
	return &Error{Name: NameTypeError, Message: msg}
}

func newTypeErrorf(format string, args ...any) error {
	return &Error{Name: NameTypeError, Message: fmt.Sprintf(format, args...)}
}

// notCallable builds the error for a missing callback argument.
func notCallable(what string) error {
	return newTypeError("the " + what + " is not callable.")
}
