package corpus

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/trace"
)

// Entry is the persisted unit a corpus keeps: a Trace plus the
// bookkeeping a fuzzer needs to decide whether it has already kept
// something like it. Coverage is an opaque list of edge ids (see
// internal/fuzzer.EdgeMap); corpus itself never interprets them beyond
// hashing them for CoverageSignature.
type Entry struct {
	RunID      string    `yaml:"run_id"`
	Discovered time.Time `yaml:"discovered"`
	Coverage   []uint64  `yaml:"coverage"`
	Trace      traceDTO  `yaml:"trace"`
}

// SaveEntry renders tr and its metadata as a CorpusFileExtension
// document.
func SaveEntry(runID string, discovered time.Time, coverage []uint64, tr *trace.Trace) ([]byte, error) {
	e := Entry{
		RunID:      runID,
		Discovered: discovered,
		Coverage:   append([]uint64(nil), coverage...),
		Trace:      traceToDTO(tr),
	}
	out, err := yaml.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("corpus: save entry: %w", err)
	}
	return out, nil
}

// LoadedEntry is SaveEntry's metadata plus the reconstructed Trace,
// resolved against sig (see DecodeTrace).
type LoadedEntry struct {
	RunID      string
	Discovered time.Time
	Coverage   []uint64
	Trace      *trace.Trace
}

// LoadEntry parses data back into a LoadedEntry.
func LoadEntry(data []byte, sig *signature.Signature) (LoadedEntry, error) {
	var e Entry
	if err := yaml.Unmarshal(data, &e); err != nil {
		return LoadedEntry{}, fmt.Errorf("corpus: load entry: %w", err)
	}
	tr, err := dtoToTrace(e.Trace, sig)
	if err != nil {
		return LoadedEntry{}, fmt.Errorf("corpus: load entry %s: %w", e.RunID, err)
	}
	return LoadedEntry{
		RunID:      e.RunID,
		Discovered: e.Discovered,
		Coverage:   e.Coverage,
		Trace:      tr,
	}, nil
}
