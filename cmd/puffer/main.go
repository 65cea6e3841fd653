// Command puffer is the CLI surface for the core: a
// `--cores N` fuzzing loop wired to the reference TLS endpoint and the
// reference fn_* catalogue, plus a `replay` mode for re-running one
// persisted trace without the fuzzing loop around it. Flags are parsed
// by hand, scanning os.Args, a subcommand dispatch style instead of a
// flag-parsing dependency.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/broker"
	"github.com/tlsfuzz/puffer/internal/config"
	"github.com/tlsfuzz/puffer/internal/corpus"
	"github.com/tlsfuzz/puffer/internal/ferr"
	"github.com/tlsfuzz/puffer/internal/fuzzer"
	"github.com/tlsfuzz/puffer/internal/reftls"
	reftlsfn "github.com/tlsfuzz/puffer/internal/reftls/fn"
	"github.com/tlsfuzz/puffer/internal/seeds"
	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/trace"
)

// logger carries every diagnostic line this command emits outside of
// its directly user-requested output (help text, the replay
// narration, the interactive progress line): structured key/value
// fields to a text handler on stderr.
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(1)
		}
	}()

	if handleHelp() {
		return
	}
	if handleReplay() {
		return
	}
	runFuzz(os.Args[1:])
}

func handleHelp() bool {
	if len(os.Args) < 2 {
		return false
	}
	switch os.Args[1] {
	case "-h", "--help", "help":
		printUsage()
		return true
	}
	return false
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `usage: %s [--cores N] [--broker-port PORT] [--corpus DIR] [--objectives DIR]
       %s replay <trace-file>

--cores N           number of worker goroutines (default: one per seed scenario)
--broker-port PORT  EdgeService port workers dial/host (default %d)
--corpus DIR        directory interesting traces are written to (default "corpus")
--objectives DIR    directory crashing traces are written to (default "objectives")
`, os.Args[0], os.Args[0], config.DefaultBrokerPort)
}

func handleReplay() bool {
	if len(os.Args) < 2 || os.Args[1] != "replay" {
		return false
	}
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "usage: %s replay <trace-file>\n", os.Args[0])
		os.Exit(1)
	}
	config.IsReplayMode = true
	runReplay(os.Args[2])
	return true
}

func runReplay(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}

	sig := reftlsfn.Register(signature.NewSignature())
	loaded, err := corpus.LoadEntry(data, sig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("replaying run %s (%d step(s), discovered %s)\n",
		loaded.RunID, len(loaded.Trace.Steps), loaded.Discovered.Format(time.RFC3339))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := trace.Execute(ctx, loaded.Trace, sig, reftls.Factory); err != nil {
		var fe *ferr.Error
		if errors.As(err, &fe) {
			fmt.Printf("execution stopped: %s: %v\n", fe.Kind, fe)
		} else {
			fmt.Printf("execution stopped: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Println("trace executed without error")
}

type fuzzFlags struct {
	cores         int
	brokerPort    int
	corpusDir     string
	objectivesDir string
}

func parseFuzzFlags(args []string) fuzzFlags {
	f := fuzzFlags{
		brokerPort:    config.DefaultBrokerPort,
		corpusDir:     "corpus",
		objectivesDir: "objectives",
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--cores":
			if i+1 < len(args) {
				i++
				f.cores, _ = strconv.Atoi(args[i])
			}
		case "--broker-port":
			if i+1 < len(args) {
				i++
				f.brokerPort, _ = strconv.Atoi(args[i])
			}
		case "--corpus":
			if i+1 < len(args) {
				i++
				f.corpusDir = args[i]
			}
		case "--objectives":
			if i+1 < len(args) {
				i++
				f.objectivesDir = args[i]
			}
		}
	}
	return f
}

// scenario pairs one seed constructor with the agent factory it must
// run under: the honest seeds (S1/S2) need reftls.HonestFactory's
// spontaneous client, every attacker-driven seed needs reftls.Factory's
// passive client stand-in (seeds.SeedSuccessful's doc comment explains
// why).
type scenario struct {
	name   string
	honest bool
	build  func(client, server agent.Name) (*trace.Trace, *signature.Signature)
}

var scenarios = []scenario{
	{"successful-1.3", true, seeds.SeedSuccessful},
	{"successful-1.2", true, seeds.SeedSuccessful12},
	{"client-attacker-1.3", false, seeds.SeedClientAttacker},
	{"client-attacker-1.2", false, seeds.SeedClientAttacker12},
	{"session-resumption-dhe", false, seeds.SeedSessionResumptionDHE},
	{"session-resumption-ke", false, seeds.SeedSessionResumptionKE},
}

func runFuzz(args []string) {
	flags := parseFuzzFlags(args)
	cores := flags.cores
	if cores <= 0 {
		cores = len(scenarios)
	}

	if err := os.MkdirAll(flags.corpusDir, 0o755); err != nil {
		logger.Error("create corpus directory", "dir", flags.corpusDir, "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(flags.objectivesDir, 0o755); err != nil {
		logger.Error("create objectives directory", "dir", flags.objectivesDir, "err", err)
		os.Exit(1)
	}

	cat, err := corpus.OpenCatalog(filepath.Join(flags.corpusDir, config.DefaultCatalogFile))
	if err != nil {
		logger.Error("open catalog", "err", err)
		os.Exit(1)
	}
	defer cat.Close()

	addr := fmt.Sprintf("127.0.0.1:%d", flags.brokerPort)
	if lis, err := net.Listen("tcp", addr); err == nil {
		srv := broker.NewServer()
		go func() { _ = srv.Serve(lis) }()
		defer srv.GracefulStop()
	}
	// If the bind above failed, another cmd/puffer process already won
	// the race and is hosting EdgeService on addr; either way this
	// process dials addr as a client next.

	client, err := broker.Dial(addr)
	if err != nil {
		logger.Error("broker dial", "addr", addr, "err", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	interactive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	logger.Info("starting",
		"version", config.Version, "workers", cores, "broker", addr,
		"corpus", flags.corpusDir, "objectives", flags.objectivesDir,
		"gomaxprocs", runtime.GOMAXPROCS(0))

	var wg sync.WaitGroup
	for i := 0; i < cores; i++ {
		sc := scenarios[i%len(scenarios)]
		wg.Add(1)
		go func(sc scenario) {
			defer wg.Done()
			runWorker(ctx, sc, cat, client, flags, interactive)
		}(sc)
	}
	wg.Wait()
}

func runWorker(ctx context.Context, sc scenario, cat *corpus.Catalog, client *broker.Client, flags fuzzFlags, interactive bool) {
	clientName, serverName := agent.First(), agent.First().Next()
	seedTrace, sig := sc.build(clientName, serverName)

	factory := reftls.Factory
	if sc.honest {
		factory = reftls.HonestFactory
	}

	w := fuzzer.NewWorker(sig, factory, sig)
	corpusTraces := []*trace.Trace{seedTrace}

	buf := make([]byte, 256)
	lastReport := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, err := rand.Read(buf); err != nil {
			logger.Error("entropy source failed", "scenario", sc.name, "err", err)
			return
		}

		outcome, err := w.RunOnce(ctx, corpusTraces, buf)
		if err != nil {
			logger.Warn("run error", "scenario", sc.name, "err", err)
			continue
		}

		switch outcome.Kind {
		case fuzzer.OutcomeInteresting:
			persistInteresting(ctx, w, outcome, cat, client, flags.corpusDir)
		case fuzzer.OutcomeCrash:
			persistCrash(ctx, w, outcome, client, flags.objectivesDir, sc.name)
		}

		if time.Since(lastReport) >= time.Second {
			stats := w.Observer.Snapshot()
			if interactive {
				fmt.Fprintf(os.Stderr, "[%s] %s\n", sc.name, stats)
			} else {
				logger.Info("stats", "scenario", sc.name,
					"executions", stats.Executions, "crashes", stats.Crashes,
					"interesting", stats.Interesting, "rejected", stats.Rejected,
					"execs_per_sec", stats.ExecsPerSecond())
			}
			lastReport = time.Now()
		}
	}
}

func persistInteresting(ctx context.Context, w *fuzzer.Worker, outcome fuzzer.Outcome, cat *corpus.Catalog, client *broker.Client, corpusDir string) {
	sig := corpus.CoverageSignature(outcome.Edges)
	seen, err := cat.Seen(ctx, sig)
	if err != nil || seen {
		return
	}

	discovered := time.Now()
	data, err := corpus.SaveEntry(w.RunID, discovered, outcome.Edges, outcome.Trace)
	if err != nil {
		logger.Error("save entry", "err", err)
		return
	}

	name := fmt.Sprintf("%s-%d%s", w.RunID, discovered.UnixNano(), config.CorpusFileExtension)
	path := filepath.Join(corpusDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("write corpus entry", "path", path, "err", err)
		return
	}
	if err := cat.Record(ctx, sig, w.RunID, path, discovered); err != nil {
		logger.Error("record catalog entry", "path", path, "err", err)
	}
	logger.Info("new coverage", "run_id", w.RunID, "path", path, "edges", len(outcome.Edges))
	if err := client.ReportEdges(ctx, w.RunID, outcome.Edges); err != nil {
		logger.Warn("report edges to broker", "err", err)
	}
}

func persistCrash(ctx context.Context, w *fuzzer.Worker, outcome fuzzer.Outcome, client *broker.Client, objectivesDir, scenarioName string) {
	reason := scenarioName
	if outcome.Err != nil {
		reason = outcome.Err.Error()
	}

	discovered := time.Now()
	data, err := corpus.SaveEntry(w.RunID, discovered, outcome.Edges, outcome.Trace)
	if err != nil {
		logger.Error("save objective", "err", err)
		return
	}

	name := fmt.Sprintf("%s-%d%s", w.RunID, discovered.UnixNano(), config.ObjectiveFileExtension)
	path := filepath.Join(objectivesDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("write objective", "path", path, "err", err)
		return
	}
	logger.Warn("crash", "scenario", scenarioName, "reason", reason, "path", path)

	if err := client.ReportObjective(ctx, w.RunID, reason, data); err != nil {
		logger.Warn("report objective to broker", "err", err)
	}
}
