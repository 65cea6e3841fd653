package term

import (
	"testing"

	"github.com/tlsfuzz/puffer/internal/fn"
	"github.com/tlsfuzz/puffer/internal/signature"
)

func intConst(sig *signature.Signature, name string, v int) signature.Function {
	d := fn.MakeDynamic0(name, func() (int, error) { return v, nil })
	return sig.NewFunction(d)
}

func addFn(sig *signature.Signature) signature.Function {
	d := fn.MakeDynamic2("add", func(a, b int) (int, error) { return a + b, nil })
	return sig.NewFunction(d)
}

func TestCloneIsDeepAndPreservesResistantID(t *testing.T) {
	sig := signature.NewSignature()
	one := intConst(sig, "one", 1)
	two := intConst(sig, "two", 2)
	add := addFn(sig)

	original := NewApplication(add, NewApplication(one), NewApplication(two))
	clone := original.Clone()

	if clone == original {
		t.Fatalf("expected a distinct tree")
	}
	if clone.Children[0] == original.Children[0] {
		t.Fatalf("expected deep clone of children")
	}
	if clone.Function.ResistantID() != original.Function.ResistantID() {
		t.Fatalf("resistant id must survive clone")
	}
}

func TestSizeCountsNodes(t *testing.T) {
	sig := signature.NewSignature()
	one := intConst(sig, "one", 1)
	two := intConst(sig, "two", 2)
	add := addFn(sig)
	tr := NewApplication(add, NewApplication(one), NewApplication(two))
	if tr.Size() != 3 {
		t.Fatalf("got size %d, want 3", tr.Size())
	}
}

func TestTraverseFromRootPreOrder(t *testing.T) {
	sig := signature.NewSignature()
	one := intConst(sig, "one", 1)
	two := intConst(sig, "two", 2)
	add := addFn(sig)
	tr := NewApplication(add, NewApplication(one), NewApplication(two))

	var names []string
	for n := range tr.TraverseFromRoot() {
		if n.Kind == KindApplication {
			names = append(names, n.Function.Name)
		}
	}
	want := []string{"add", "one", "two"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestTraverseFromRootIsRestartable(t *testing.T) {
	sig := signature.NewSignature()
	one := intConst(sig, "one", 1)
	tr := NewApplication(one)
	first := 0
	for range tr.TraverseFromRoot() {
		first++
	}
	second := 0
	for range tr.TraverseFromRoot() {
		second++
	}
	if first != second {
		t.Fatalf("traversal should be restartable with identical results: %d vs %d", first, second)
	}
}

func TestGetAndReplaceAtPath(t *testing.T) {
	sig := signature.NewSignature()
	one := intConst(sig, "one", 1)
	two := intConst(sig, "two", 2)
	three := intConst(sig, "three", 3)
	add := addFn(sig)
	tr := NewApplication(add, NewApplication(one), NewApplication(two))

	sub, err := tr.GetAtPath(Path{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Function.Name != "one" {
		t.Fatalf("got %s, want one", sub.Function.Name)
	}

	if err := tr.ReplaceAtPath(Path{0}, NewApplication(three)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sub, _ = tr.GetAtPath(Path{0})
	if sub.Function.Name != "three" {
		t.Fatalf("replacement did not take effect: got %s", sub.Function.Name)
	}
}

func TestReplaceAtPathRejectsTypeMismatch(t *testing.T) {
	sig := signature.NewSignature()
	one := intConst(sig, "one", 1)
	two := intConst(sig, "two", 2)
	add := addFn(sig)
	str := fn.MakeDynamic0("str", func() (string, error) { return "x", nil })
	strSym := sig.NewFunction(str)

	tr := NewApplication(add, NewApplication(one), NewApplication(two))
	err := tr.ReplaceAtPath(Path{0}, NewApplication(strSym))
	if err == nil {
		t.Fatalf("expected a type mismatch error")
	}
}

func TestInvalidPathErrors(t *testing.T) {
	sig := signature.NewSignature()
	one := intConst(sig, "one", 1)
	tr := NewApplication(one)
	if _, err := tr.GetAtPath(Path{0}); err == nil {
		t.Fatalf("expected PathError for out-of-range index")
	}
}
