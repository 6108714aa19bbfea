package transcripts

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"verbatim/internal/logging"
)

// TestIngestRollsBackOnMidRunFault simulates a storage fault on line 50 of a
// 100-line episode and verifies nothing from the run survives.
func TestIngestRollsBackOnMidRunFault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tenant.sqlite")
	store, err := Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	_, err = store.db.Exec(`CREATE TRIGGER fail_on_line_50 BEFORE INSERT ON lines
        WHEN new.line_number = 50
        BEGIN SELECT RAISE(ABORT, 'simulated storage fault'); END`)
	if err != nil {
		t.Fatalf("install fault trigger: %v", err)
	}

	content := make([]string, 100)
	for i := range content {
		content[i] = "JOHN: line"
	}
	err = store.Ingest(context.Background(), []SourceFile{
		{Path: "1x01 - Doomed.txt", Content: strings.Join(content, "\n")},
	})
	if err == nil || !strings.Contains(err.Error(), "simulated storage fault") {
		t.Fatalf("expected simulated fault, got %v", err)
	}

	for _, table := range []string{"seasons", "episodes", "speakers", "lines"} {
		var count int
		if err := store.db.QueryRow("SELECT COUNT(1) FROM " + table).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected zero rows in %s after rollback, found %d", table, count)
		}
	}
}
