// Package config carries the ambient, program-wide settings cmd/puffer
// and internal/corpus share: file extensions and a couple of
// process-wide mode flags, kept as a small globals package rather than
// threaded through every call site as explicit parameters.
package config

// Version is the current puffer release, set at build time via
// -ldflags or by writing to this file directly.
var Version = "0.1.0"

// CorpusFileExtension is the extension every on-disk corpus entry
// carries.
const CorpusFileExtension = ".trace.yaml"

// ObjectiveFileExtension is the extension a trace gets persisted under
// when a fuzzing round classifies it as a crash (fuzzer.OutcomeCrash):
// a dedicated, separately-swept directory from the coverage corpus.
const ObjectiveFileExtension = ".crash.yaml"

// CorpusFileExtensions lists every extension TrimCorpusExt/HasCorpusExt
// recognize.
var CorpusFileExtensions = []string{CorpusFileExtension, ObjectiveFileExtension}

// TrimCorpusExt removes any recognized corpus extension from a
// filename. Returns the original string if no extension matches.
func TrimCorpusExt(name string) string {
	for _, ext := range CorpusFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasCorpusExt returns true if path ends with any recognized corpus
// extension.
func HasCorpusExt(path string) bool {
	for _, ext := range CorpusFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsReplayMode indicates the process is running `puffer replay`
// against a single persisted trace rather than the fuzzing loop. Set
// once at startup in cmd/puffer. No package reads it; the replay path
// itself never dials the broker or writes corpus files.
var IsReplayMode = false

// DefaultBrokerPort is the gRPC EdgeService port cmd/puffer dials (or
// listens on, for the first worker that wins the bind race) absent an
// explicit --broker-port flag.
const DefaultBrokerPort = 4317

// DefaultCatalogFile is the SQLite catalogue filename created inside
// the corpus directory absent an explicit override.
const DefaultCatalogFile = "catalog.sqlite"
