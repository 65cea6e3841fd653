// Package term implements the term algebra: a recursive
// tagged value tree of function applications and variables, with
// cloning, traversal, and path-addressed replacement.
package term

import (
	"fmt"

	"github.com/tlsfuzz/puffer/internal/fn"
	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/types"
)

// Kind distinguishes the two Term constructors.
type Kind int

const (
	KindVariable Kind = iota
	KindApplication
)

// Term is the recursive tagged value at the core of the term algebra: a
// Variable leaf, or an Application internal node whose children's count and
// evaluated types must match the function's declared shape.
type Term struct {
	Kind     Kind
	Variable signature.Variable // meaningful when Kind == KindVariable
	Function signature.Function // meaningful when Kind == KindApplication
	Children []*Term            // meaningful when Kind == KindApplication
}

// NewVariable constructs a Variable leaf term.
func NewVariable(v signature.Variable) *Term {
	return &Term{Kind: KindVariable, Variable: v}
}

// NewApplication constructs an Application node. It panics if the
// number of children does not match the function's declared arity;
// callers (the builder, the mutators, the seeds) are expected to have
// already checked this, the same way the source treats arity mismatch
// as a construction-time programmer error rather than a runtime one.
func NewApplication(f signature.Function, children ...*Term) *Term {
	if len(children) != f.Shape().Arity() {
		panic(fmt.Sprintf("term: %s expects %d children, got %d", f.Name, f.Shape().Arity(), len(children)))
	}
	return &Term{Kind: KindApplication, Function: f, Children: children}
}

// ReturnShape is the TypeShape this term evaluates to: the variable's
// declared type, or the function's declared return type.
func (t *Term) ReturnShape() types.Shape {
	if t.Kind == KindVariable {
		return t.Variable.Shape
	}
	return t.Function.Shape().Ret
}

// IsConstant reports whether t is a 0-arity Application, the shape
// ReplaceMatch mutates.
func (t *Term) IsConstant() bool {
	return t.Kind == KindApplication && len(t.Children) == 0
}

// Clone deep-clones t, preserving every symbol's identity.
func (t *Term) Clone() *Term {
	if t == nil {
		return nil
	}
	clone := &Term{Kind: t.Kind, Variable: t.Variable, Function: t.Function}
	if len(t.Children) > 0 {
		clone.Children = make([]*Term, len(t.Children))
		for i, c := range t.Children {
			clone.Children[i] = c.Clone()
		}
	}
	return clone
}

// Size returns the node count of t.
func (t *Term) Size() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, c := range t.Children {
		n += c.Size()
	}
	return n
}

// Fn mirrors fn.Shape, re-exported for callers that only import term.
type Fn = fn.Shape
