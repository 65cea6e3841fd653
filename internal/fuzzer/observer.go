package fuzzer

import (
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Observer accumulates the execution statistics a worker loop reports
// periodically: total runs, how many were crashes vs. newly
// interesting vs. merely rejected, and wall-clock
// throughput.
type Observer struct {
	mu          sync.Mutex
	start       time.Time
	execs       uint64
	crashes     uint64
	interesting uint64
	rejected    uint64
}

// NewObserver returns an Observer whose clock starts now.
func NewObserver() *Observer {
	return &Observer{start: time.Now()}
}

func (o *Observer) RecordExecution() {
	o.mu.Lock()
	o.execs++
	o.mu.Unlock()
}

func (o *Observer) RecordCrash() {
	o.mu.Lock()
	o.crashes++
	o.mu.Unlock()
}

func (o *Observer) RecordInteresting() {
	o.mu.Lock()
	o.interesting++
	o.mu.Unlock()
}

func (o *Observer) RecordRejected() {
	o.mu.Lock()
	o.rejected++
	o.mu.Unlock()
}

// Stats is a point-in-time snapshot of an Observer.
type Stats struct {
	Executions  uint64
	Crashes     uint64
	Interesting uint64
	Rejected    uint64
	Elapsed     time.Duration
}

// Snapshot returns the current Stats.
func (o *Observer) Snapshot() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Stats{
		Executions:  o.execs,
		Crashes:     o.crashes,
		Interesting: o.interesting,
		Rejected:    o.rejected,
		Elapsed:     time.Since(o.start),
	}
}

// ExecsPerSecond reports the average execution rate since the
// Observer was created.
func (s Stats) ExecsPerSecond() float64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Executions) / secs
}

// String renders a one-line human-readable status, the shape
// cmd/puffer prints to an interactive terminal.
func (s Stats) String() string {
	return fmt.Sprintf("execs=%s (%s/s) crashes=%s interesting=%s rejected=%s elapsed=%s",
		humanize.Comma(int64(s.Executions)),
		humanize.CommafWithDigits(s.ExecsPerSecond(), 1),
		humanize.Comma(int64(s.Crashes)),
		humanize.Comma(int64(s.Interesting)),
		humanize.Comma(int64(s.Rejected)),
		s.Elapsed.Round(time.Second),
	)
}
