package corpus

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestCoverageSignatureIsOrderIndependent(t *testing.T) {
	a := CoverageSignature([]uint64{1, 2, 3})
	b := CoverageSignature([]uint64{3, 1, 2})
	if a != b {
		t.Fatalf("expected order-independent signatures, got %q and %q", a, b)
	}
}

func TestCoverageSignatureDistinguishesDifferentEdgeSets(t *testing.T) {
	a := CoverageSignature([]uint64{1, 2, 3})
	b := CoverageSignature([]uint64{1, 2, 4})
	if a == b {
		t.Fatalf("expected different edge sets to hash differently")
	}
}

func TestCatalogRecordAndSeen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.sqlite")

	cat, err := OpenCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cat.Close()

	sig := CoverageSignature([]uint64{10, 20})
	seen, err := cat.Seen(ctx, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen {
		t.Fatalf("expected a fresh catalogue to have no entries")
	}

	if err := cat.Record(ctx, sig, "run-1", "/corpus/run-1.trace.yaml", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen, err = cat.Seen(ctx, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !seen {
		t.Fatalf("expected the recorded signature to be seen")
	}

	path2, ok, err := cat.FilePath(ctx, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || path2 != "/corpus/run-1.trace.yaml" {
		t.Fatalf("expected the recorded file path back, got %q, %v", path2, ok)
	}
}

func TestCatalogRecordReplacesExistingEntry(t *testing.T) {
	ctx := context.Background()
	cat, err := OpenCatalog(filepath.Join(t.TempDir(), "catalog.sqlite"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cat.Close()

	sig := CoverageSignature([]uint64{1})
	if err := cat.Record(ctx, sig, "run-1", "a.trace.yaml", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cat.Record(ctx, sig, "run-2", "b.trace.yaml", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, ok, err := cat.FilePath(ctx, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || path != "b.trace.yaml" {
		t.Fatalf("expected the replaced entry to win, got %q", path)
	}
}
