package term

import (
	"fmt"
	"iter"
)

// Path is the sequence of child indices from the root identifying one
// subterm.
type Path []int

// PathError reports a path that does not address an existing subterm.
type PathError struct {
	Path Path
}

func (e *PathError) Error() string { return fmt.Sprintf("term: invalid path %v", []int(e.Path)) }

// ReplacementTypeError reports a ReplaceAtPath call whose replacement's
// return type does not match the hole's expected type.
type ReplacementTypeError struct {
	Path     Path
	Expected string
	Actual   string
}

func (e *ReplacementTypeError) Error() string {
	return fmt.Sprintf("term: replacement at %v: expected %s, got %s", []int(e.Path), e.Expected, e.Actual)
}

// TraverseFromRoot yields every subterm of t in depth-first pre-order,
// starting with t itself. The sequence is finite and restartable: each
// call to TraverseFromRoot produces a fresh traversal.
func (t *Term) TraverseFromRoot() iter.Seq[*Term] {
	return func(yield func(*Term) bool) {
		var walk func(*Term) bool
		walk = func(n *Term) bool {
			if n == nil {
				return true
			}
			if !yield(n) {
				return false
			}
			for _, c := range n.Children {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(t)
	}
}

// GetAtPath returns the subterm addressed by path, where path is the
// sequence of child indices from the root.
func (t *Term) GetAtPath(path Path) (*Term, error) {
	n := t
	for _, idx := range path {
		if n == nil || idx < 0 || idx >= len(n.Children) {
			return nil, &PathError{Path: path}
		}
		n = n.Children[idx]
	}
	if n == nil {
		return nil, &PathError{Path: path}
	}
	return n, nil
}

// ReplaceAtPath replaces the subterm at path with replacement,
// returning an error (and leaving t unchanged) if the path does not
// exist or if replacement's evaluated TypeShape does not match the
// hole's expected TypeShape.
func (t *Term) ReplaceAtPath(path Path, replacement *Term) error {
	if len(path) == 0 {
		hole, err := t.GetAtPath(path)
		if err != nil {
			return err
		}
		if !hole.ReturnShape().Equal(replacement.ReturnShape()) {
			return &ReplacementTypeError{Path: path, Expected: hole.ReturnShape().String(), Actual: replacement.ReturnShape().String()}
		}
		*t = *replacement
		return nil
	}

	parentPath, last := path[:len(path)-1], path[len(path)-1]
	parent, err := t.GetAtPath(parentPath)
	if err != nil {
		return err
	}
	if last < 0 || last >= len(parent.Children) {
		return &PathError{Path: path}
	}
	hole := parent.Children[last]
	if !hole.ReturnShape().Equal(replacement.ReturnShape()) {
		return &ReplacementTypeError{Path: path, Expected: hole.ReturnShape().String(), Actual: replacement.ReturnShape().String()}
	}
	parent.Children[last] = replacement
	return nil
}

// Paths returns the Path of every subterm in the same pre-order as
// TraverseFromRoot, for mutators that need to pick a subterm and still
// know how to address it for replacement.
func (t *Term) Paths() []Path {
	var paths []Path
	var walk func(n *Term, prefix Path)
	walk = func(n *Term, prefix Path) {
		if n == nil {
			return
		}
		cp := make(Path, len(prefix))
		copy(cp, prefix)
		paths = append(paths, cp)
		for i, c := range n.Children {
			child := make(Path, len(prefix)+1)
			copy(child, prefix)
			child[len(prefix)] = i
			walk(c, child)
		}
	}
	walk(t, nil)
	return paths
}
