package fuzzer

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/google/uuid"
	fuzz "github.com/trailofbits/go-fuzz-utils"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/ferr"
	"github.com/tlsfuzz/puffer/internal/mutate"
	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/trace"
)

// OutcomeKind classifies one RunOnce round.
type OutcomeKind int

const (
	// OutcomeSkipped: the mutation round drew a Skipped mutator, or the
	// fuzz input was too short to decode a full round. No trace ran.
	OutcomeSkipped OutcomeKind = iota
	// OutcomeRejected: the trace executed but hit an expected,
	// non-crashing protocol outcome (ferr.KindMissing/KindNative).
	OutcomeRejected
	// OutcomeOk: the trace executed cleanly with no new coverage.
	OutcomeOk
	// OutcomeInteresting: the trace executed cleanly and lit up at
	// least one edge the worker's EdgeMap had never seen before.
	OutcomeInteresting
	// OutcomeCrash: the trace executed and returned an error outside
	// the expected/rejected set — a corpus-worthy finding.
	OutcomeCrash
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRejected:
		return "rejected"
	case OutcomeOk:
		return "ok"
	case OutcomeInteresting:
		return "interesting"
	case OutcomeCrash:
		return "crash"
	default:
		return "unknown"
	}
}

// Outcome is RunOnce's result: the mutated trace it ran (nil if
// skipped before execution), its classification, any error, and the
// coverage edges it produced.
type Outcome struct {
	Trace  *trace.Trace
	Mutator mutate.Result
	Kind   OutcomeKind
	Err    error
	Edges  []uint64
}

// coverageProvider is the optional shape internal/reftls's reference
// endpoints satisfy. Declared here, at the consumer, rather than
// imported from reftls, so this package can collect coverage from any
// Endpoint implementation that happens to expose it.
type coverageProvider interface {
	Edges() []uint64
}

// Worker ties one round of mutate-then-execute together against a
// fixed function catalogue and agent factory. RunID identifies this
// worker's invocation for corpus entry naming and broker reports.
type Worker struct {
	RunID       string
	Signature   *signature.Signature
	Factory     agent.Factory
	Functions   mutate.FunctionSource
	Constraints mutate.TermConstraints
	Coverage    *EdgeMap
	Observer    *Observer
}

// NewWorker returns a ready-to-use Worker with a fresh RunID, an empty
// coverage map, and a fresh Observer.
func NewWorker(sig *signature.Signature, factory agent.Factory, functions mutate.FunctionSource) *Worker {
	return &Worker{
		RunID:     uuid.NewString(),
		Signature: sig,
		Factory:   factory,
		Functions: functions,
		Coverage:  &EdgeMap{},
		Observer:  NewObserver(),
	}
}

// RunOnce decodes data (raw fuzz-engine input, or a byte corpus entry
// under `go test -fuzz`) into a base-trace choice and a PRNG seed; the
// seeded PRNG then drives mutate.Pick's choice of mutator and its
// parameters before the mutated clone of the chosen trace from
// corpusTraces is executed. Decoding through go-fuzz-utils rather than
// holding live *rand.Rand state makes a round replayable from its
// input bytes alone. A panic during execution is recovered and
// reported as an OutcomeCrash.
func (w *Worker) RunOnce(ctx context.Context, corpusTraces []*trace.Trace, data []byte) (out Outcome, err error) {
	if len(corpusTraces) == 0 {
		return Outcome{}, fmt.Errorf("fuzzer: no seed traces to mutate from")
	}

	tp, err := fuzz.NewTypeProvider(data)
	if err != nil {
		return Outcome{Kind: OutcomeSkipped}, nil
	}

	baseRaw, err := tp.GetByte()
	if err != nil {
		return Outcome{Kind: OutcomeSkipped}, nil
	}
	seedBytes, err := tp.GetBytes()
	if err != nil {
		return Outcome{Kind: OutcomeSkipped}, nil
	}

	base := corpusTraces[int(baseRaw)%len(corpusTraces)]
	rng := rand.New(rand.NewSource(seedFromBytes(seedBytes)))

	mutated, result := mutate.Pick(rng, w.Functions, base, w.Constraints)
	w.Observer.RecordExecution()
	if result == mutate.Skipped {
		return Outcome{Trace: mutated, Mutator: result, Kind: OutcomeSkipped}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			w.Observer.RecordCrash()
			out = Outcome{Trace: mutated, Mutator: result, Kind: OutcomeCrash, Err: fmt.Errorf("fuzzer: panic during execution: %v", r)}
			err = nil
		}
	}()

	tctx, execErr := trace.Execute(ctx, mutated, w.Signature, w.Factory)
	edges := collectEdges(tctx)

	outcome := Outcome{Trace: mutated, Mutator: result, Edges: edges}
	if execErr != nil {
		var fe *ferr.Error
		if errors.As(execErr, &fe) && (fe.Kind == ferr.KindMissing || fe.Kind == ferr.KindNative) {
			outcome.Kind = OutcomeRejected
			outcome.Err = execErr
			w.Observer.RecordRejected()
			return outcome, nil
		}
		outcome.Kind = OutcomeCrash
		outcome.Err = execErr
		w.Observer.RecordCrash()
		return outcome, nil
	}

	if w.Coverage.MergeNew(edges) {
		outcome.Kind = OutcomeInteresting
		w.Observer.RecordInteresting()
	} else {
		outcome.Kind = OutcomeOk
	}
	return outcome, nil
}

// seedFromBytes turns arbitrary fuzz-engine bytes into a PRNG seed,
// deterministically, so the same input always mutates the same way.
func seedFromBytes(b []byte) int64 {
	h := fnv.New64a()
	h.Write(b)
	return int64(h.Sum64())
}

func collectEdges(tctx *trace.Context) []uint64 {
	if tctx == nil {
		return nil
	}
	var edges []uint64
	for _, a := range tctx.Agents {
		if cp, ok := a.Endpoint.(coverageProvider); ok {
			edges = append(edges, cp.Edges()...)
		}
	}
	return edges
}
