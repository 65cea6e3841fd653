package fuzzer

import "testing"

func TestObserverSnapshotCountsEachKind(t *testing.T) {
	o := NewObserver()
	o.RecordExecution()
	o.RecordExecution()
	o.RecordCrash()
	o.RecordInteresting()
	o.RecordRejected()

	s := o.Snapshot()
	if s.Executions != 2 {
		t.Fatalf("expected 2 executions, got %d", s.Executions)
	}
	if s.Crashes != 1 || s.Interesting != 1 || s.Rejected != 1 {
		t.Fatalf("expected one of each outcome, got %+v", s)
	}
}

func TestStatsStringIsNonEmpty(t *testing.T) {
	o := NewObserver()
	o.RecordExecution()
	if o.Snapshot().String() == "" {
		t.Fatalf("expected a non-empty status line")
	}
}
