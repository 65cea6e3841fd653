package fn

import (
	"errors"
	"testing"
)

func TestMakeDynamic2InvokeSuccess(t *testing.T) {
	add := MakeDynamic2("add", func(a, b int) (int, error) { return a + b, nil })
	got, err := add.Invoke([]any{2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(int) != 5 {
		t.Fatalf("got %v, want 5", got)
	}
}

func TestMakeDynamicWrongArity(t *testing.T) {
	add := MakeDynamic2("add", func(a, b int) (int, error) { return a + b, nil })
	_, err := add.Invoke([]any{2})
	if !errors.Is(err, ErrWrongArity) {
		t.Fatalf("expected ErrWrongArity, got %v", err)
	}
}

func TestMakeDynamicTypeMismatch(t *testing.T) {
	add := MakeDynamic2("add", func(a, b int) (int, error) { return a + b, nil })
	_, err := add.Invoke([]any{2, "three"})
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *TypeMismatchError, got %v", err)
	}
	if mismatch.Index != 1 {
		t.Fatalf("expected mismatch at index 1, got %d", mismatch.Index)
	}
}

func TestMakeDynamicPropagatesDeclaredError(t *testing.T) {
	boom := errors.New("boom")
	f := MakeDynamic0("boom", func() (int, error) { return 0, boom })
	_, err := f.Invoke(nil)
	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected *CallError, got %v", err)
	}
	if !errors.Is(callErr, boom) {
		t.Fatalf("expected wrapped boom, got %v", callErr.Unwrap())
	}
}

func TestShapeAcceptsReturnOf(t *testing.T) {
	constant := MakeDynamic0("c", func() (int, error) { return 1, nil })
	add := MakeDynamic2("add", func(a, b int) (int, error) { return a + b, nil })
	if !constant.Shape.AcceptsReturnOf(add.Shape, 0) {
		t.Fatalf("expected int-returning constant to fit add's first int argument")
	}
	if constant.Shape.AcceptsReturnOf(add.Shape, 5) {
		t.Fatalf("out-of-range argIndex must report false")
	}
}
