package registry_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"verbatim/internal/logging"
	"verbatim/internal/registry"
	"verbatim/internal/transcripts"
)

func newRegistry(t *testing.T) (*registry.Registry, string) {
	t.Helper()
	dataDir := filepath.Join(t.TempDir(), "tenants")
	reg := registry.New(dataDir, logging.NewNop())
	t.Cleanup(func() {
		if err := reg.Close(); err != nil {
			t.Errorf("close registry: %v", err)
		}
	})
	return reg, dataDir
}

func TestResolveUnknownTenant(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.Resolve("nobody")
	if !errors.Is(err, registry.ErrTenantNotFound) {
		t.Fatalf("Resolve error = %v, want ErrTenantNotFound", err)
	}
}

func TestProvisionIsIdempotent(t *testing.T) {
	reg, dataDir := newRegistry(t)

	first, err := reg.Provision("alice")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	second, err := reg.Provision("alice")
	if err != nil {
		t.Fatalf("second provision: %v", err)
	}
	if first != second {
		t.Fatal("expected repeated provision to return the same handle")
	}

	resolved, err := reg.Resolve("alice")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != first {
		t.Fatal("expected resolve to return the provisioned handle")
	}

	wantPath := filepath.Join(dataDir, "alice.sqlite")
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("expected database at %s: %v", wantPath, err)
	}
}

func TestProvisionSanitizesTenantID(t *testing.T) {
	reg, dataDir := newRegistry(t)

	store, err := reg.Provision("Alice Smith")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	want := filepath.Join(dataDir, "alice_smith.sqlite")
	if store.Path() != want {
		t.Fatalf("db path = %s, want %s", store.Path(), want)
	}
}

func TestConcurrentProvisionYieldsOneHandle(t *testing.T) {
	reg, _ := newRegistry(t)

	const workers = 16
	handles := make([]*transcripts.Store, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store, err := reg.Provision("shared")
			if err != nil {
				t.Errorf("provision: %v", err)
				return
			}
			handles[i] = store
		}()
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if handles[i] != handles[0] {
			t.Fatal("concurrent provisions returned distinct handles")
		}
	}
}

func TestConcurrentRebuildKeepsTenantResolvable(t *testing.T) {
	reg, _ := newRegistry(t)

	if _, err := reg.Provision("shared"); err != nil {
		t.Fatalf("provision: %v", err)
	}

	// Rebuild holds the registry lock across evict and provision, so callers
	// racing it must always land on exactly one registered handle and never
	// observe the tenant missing mid-swap.
	const workers = 18
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 3 {
			case 0:
				if _, err := reg.Rebuild("shared"); err != nil {
					t.Errorf("rebuild: %v", err)
				}
			case 1:
				if _, err := reg.Provision("shared"); err != nil {
					t.Errorf("provision: %v", err)
				}
			default:
				store, err := reg.Resolve("shared")
				if err != nil {
					t.Errorf("resolve during rebuild: %v", err)
					return
				}
				if store == nil {
					t.Error("resolve returned nil handle")
				}
			}
		}()
	}
	wg.Wait()

	final, err := reg.Resolve("shared")
	if err != nil {
		t.Fatalf("resolve after rebuilds: %v", err)
	}
	if _, err := final.Seasons(t.Context()); err != nil {
		t.Fatalf("registered handle unusable: %v", err)
	}

	again, err := reg.Provision("shared")
	if err != nil {
		t.Fatalf("provision after rebuilds: %v", err)
	}
	if again != final {
		t.Fatal("expected provision to return the registered handle")
	}
}

func TestRebuildDiscardsExistingData(t *testing.T) {
	reg, _ := newRegistry(t)

	store, err := reg.Provision("alice")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	files := []transcripts.SourceFile{{
		Path:    "s01e01 - Pilot.txt",
		Content: "JOHN: hello there\n",
	}}
	if err := store.Ingest(t.Context(), files); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	fresh, err := reg.Rebuild("alice")
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if fresh == store {
		t.Fatal("expected rebuild to return a new handle")
	}

	_, err = fresh.Transcript(t.Context(), 1, 1)
	if !errors.Is(err, transcripts.ErrSeasonNotFound) {
		t.Fatalf("Transcript after rebuild = %v, want ErrSeasonNotFound", err)
	}
}

func TestRebuildProvisionsAbsentTenant(t *testing.T) {
	reg, _ := newRegistry(t)

	store, err := reg.Rebuild("newcomer")
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if store == nil {
		t.Fatal("expected a live handle")
	}
}

func TestEvict(t *testing.T) {
	reg, dataDir := newRegistry(t)

	if _, err := reg.Provision("alice"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	if err := reg.Evict("alice"); err != nil {
		t.Fatalf("evict: %v", err)
	}
	if _, err := reg.Resolve("alice"); !errors.Is(err, registry.ErrTenantNotFound) {
		t.Fatalf("Resolve after evict = %v, want ErrTenantNotFound", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "alice.sqlite")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected database file removed, stat err = %v", err)
	}

	if err := reg.Evict("alice"); !errors.Is(err, registry.ErrTenantNotFound) {
		t.Fatalf("second evict = %v, want ErrTenantNotFound", err)
	}
}

func TestReplaceAbsentTenantIsNoop(t *testing.T) {
	reg, _ := newRegistry(t)

	if err := reg.Replace("ghost"); err != nil {
		t.Fatalf("replace absent tenant: %v", err)
	}
}

func TestResetWipesDataDir(t *testing.T) {
	reg, dataDir := newRegistry(t)

	if _, err := reg.Provision("alice"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	if _, err := reg.Provision("bob"); err != nil {
		t.Fatalf("provision: %v", err)
	}

	if err := reg.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		t.Fatalf("read data dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty data dir after reset, found %d entries", len(entries))
	}
	if _, err := reg.Resolve("alice"); !errors.Is(err, registry.ErrTenantNotFound) {
		t.Fatalf("Resolve after reset = %v, want ErrTenantNotFound", err)
	}
}
