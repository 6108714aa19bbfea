package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"verbatim/internal/logging"
	"verbatim/internal/transcripts"
)

// MustOpenStore opens a transcripts.Store backed by a temp file and registers cleanup.
func MustOpenStore(t testing.TB) *transcripts.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tenant.sqlite")
	store, err := transcripts.Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("transcripts.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustIngest ingests the provided files and fails the test on error.
func MustIngest(t testing.TB, store *transcripts.Store, files []transcripts.SourceFile) {
	t.Helper()

	if err := store.Ingest(context.Background(), files); err != nil {
		t.Fatalf("store.Ingest: %v", err)
	}
}
