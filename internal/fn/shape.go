// Package fn implements the type-erased dynamic function table:
// DynamicFunction wrappers over statically typed Go functions, with
// argument/return type introspection preserved for the term evaluator
// and the mutators.
package fn

import "github.com/tlsfuzz/puffer/internal/types"

// Shape is a function symbol's static signature: its ordered argument
// TypeShapes, its return TypeShape, and its arity.
type Shape struct {
	Name string
	Args []types.Shape
	Ret  types.Shape
}

// Arity returns the number of arguments the function takes.
func (s Shape) Arity() int { return len(s.Args) }

// AcceptsReturnOf reports whether a value of this shape's return type
// can be supplied wherever other's i-th argument is expected.
func (s Shape) AcceptsReturnOf(other Shape, argIndex int) bool {
	if argIndex < 0 || argIndex >= len(other.Args) {
		return false
	}
	return s.Ret.Equal(other.Args[argIndex])
}
