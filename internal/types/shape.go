// Package types implements the TypeShape registry: the canonical runtime
// identifiers that cross the term evaluation boundary.
package types

import "reflect"

// Shape identifies a concrete value type that may appear as a term's
// evaluated value: a function argument, a function return, or a
// variable binding. Two Shapes compare equal iff they denote the same
// underlying Go type.
type Shape struct {
	rt   reflect.Type
	name string
}

// Of returns the Shape for the static type of a zero value of T.
//
//	var s = types.Of[ClientHello]()
func Of[T any]() Shape {
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil {
		// T is an interface type instantiated with nil; fall back to
		// reflecting the interface itself so Of still yields a usable,
		// if coarser, identity.
		rt = reflect.TypeOf(&zero).Elem()
	}
	return Shape{rt: rt, name: rt.String()}
}

// OfValue returns the Shape for the dynamic type of v. Used by the
// dynamic function table (internal/fn) to classify erased arguments at
// call time.
func OfValue(v any) Shape {
	if v == nil {
		return Shape{}
	}
	rt := reflect.TypeOf(v)
	return Shape{rt: rt, name: rt.String()}
}

// String returns the printable name of the type, e.g. "reftls.ClientHello".
func (s Shape) String() string { return s.name }

// IsZero reports whether s is the zero Shape (no type recorded).
func (s Shape) IsZero() bool { return s.rt == nil }

// Equal reports whether s and other denote the same value type.
func (s Shape) Equal(other Shape) bool { return s.rt == other.rt }
