// Package graphviz renders Traces and Terms as Graphviz "dot" text
//, the same debugging aid the original
// implementation pipes into the `dot` command line tool. This package
// stops at emitting the text; running `dot` over it is left to the
// caller, exactly as the original leaves it to a separate step.
package graphviz

import (
	"fmt"
	"io"
	"strings"

	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/term"
	"github.com/tlsfuzz/puffer/internal/trace"
)

const font = "Latin Modern Roman"

// RenderTrace writes tr as a single "strict digraph" document: one
// subgraph cluster per step, an Input step's cluster holding its
// recipe's term tree, an Output step's cluster an empty placeholder
// node.
func RenderTrace(w io.Writer, tr *trace.Trace, treeMode bool) error {
	fmt.Fprintf(w, "strict digraph \"Trace\" {\n  splines=false;\n  fontname=%q;\n", font)
	for i, step := range tr.Steps {
		switch action := step.Action.(type) {
		case trace.Input:
			if err := RenderTerm(w, action.Recipe, i, stepLabel(i, step), treeMode); err != nil {
				return fmt.Errorf("graphviz: render step %d: %w", i, err)
			}
		case trace.Output:
			fmt.Fprintf(w, "  subgraph cluster%d {\n    peripheries=0;\n    \"\" [color=\"#00000000\"];\n  }\n", i)
		}
	}
	fmt.Fprintln(w, "}")
	return nil
}

func stepLabel(i int, step trace.Step) string {
	return fmt.Sprintf("Step #%d (Agent %s)", i, step.Agent)
}

// RenderTerm writes t's term tree as one "subgraph cluster" of nodes
// and edges. clusterID namespaces node ids so the same Function or
// Variable symbol appearing in two different steps doesn't collide
// when treeMode renders self-contained trees instead of a shared-node
// graph.
func RenderTerm(w io.Writer, t *term.Term, clusterID int, label string, treeMode bool) error {
	fmt.Fprintf(w, "  subgraph cluster%d {\n    peripheries=0;\n    fontname=%q;\n", clusterID, font)
	_ = label // label text is suppressed by default, matching the original's SHOW_LABELS=false
	writeStatements(w, t, clusterID, treeMode)
	fmt.Fprintln(w, "  }")
	return nil
}

func writeStatements(w io.Writer, t *term.Term, clusterID int, treeMode bool) {
	id := nodeID(t, clusterID, treeMode)
	if t.Kind == term.KindVariable {
		fmt.Fprintf(w, "    %s [label=%q,shape=\"none\",fontname=%q];\n", id, variableLabel(t.Variable), font)
		return
	}

	label := strings.TrimPrefix(t.Function.Name, "fn_")
	fmt.Fprintf(w, "    %s [label=%q,shape=\"none\",fontname=%q];\n", id, label, font)
	for _, child := range t.Children {
		fmt.Fprintf(w, "    %s -> %s;\n", id, nodeID(child, clusterID, treeMode))
		writeStatements(w, child, clusterID, treeMode)
	}
}

// nodeID mirrors the original's Term::unique_id: tree mode namespaces
// every id by cluster so each step's subgraph is wholly self-contained
// (no shared nodes across steps); graph mode uses each symbol's
// resistant id directly, so repeated occurrences of the same Function
// or Variable symbol collapse onto one node.
func nodeID(t *term.Term, clusterID int, treeMode bool) string {
	if t.Kind == term.KindVariable {
		if treeMode {
			return fmt.Sprintf("v_%d_%d", clusterID, t.Variable.ID())
		}
		return fmt.Sprintf("v_%d", t.Variable.ResistantID())
	}
	if treeMode {
		return fmt.Sprintf("f_%d_%d", clusterID, t.Function.ID())
	}
	return fmt.Sprintf("f_%d", t.Function.ResistantID())
}

func variableLabel(v signature.Variable) string {
	if v.MessageType == nil {
		return fmt.Sprintf("%s[%d]", v.Agent, v.Counter)
	}
	return fmt.Sprintf("%s/%s[%d]", v.Agent, v.MessageType, v.Counter)
}
