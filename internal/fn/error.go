package fn

import (
	"errors"
	"fmt"

	"github.com/tlsfuzz/puffer/internal/types"
)

// ErrWrongArity is returned when a Dynamic is called with the wrong
// number of erased arguments.
var ErrWrongArity = errors.New("fn: wrong arity")

// TypeMismatchError is returned when an erased argument's runtime type
// does not match the declared argument type at the given index.
type TypeMismatchError struct {
	Index    int
	Expected types.Shape
	Actual   types.Shape
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("fn: argument %d: expected %s, got %s", e.Index, e.Expected, e.Actual)
}

// NewTypeMismatchError constructs a *TypeMismatchError.
func NewTypeMismatchError(index int, expected, actual types.Shape) *TypeMismatchError {
	return &TypeMismatchError{Index: index, Expected: expected, Actual: actual}
}

// CallError wraps an error returned by the underlying typed function
// itself (as opposed to an arity/type mismatch detected by the erased
// call boundary).
type CallError struct {
	Function string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("fn: %s: %v", e.Function, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// NewCallError wraps err as having originated inside the named function.
func NewCallError(name string, err error) *CallError {
	return &CallError{Function: name, Err: err}
}
