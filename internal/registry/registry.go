package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"verbatim/internal/logging"
	"verbatim/internal/textutil"
	"verbatim/internal/transcripts"
)

// ErrTenantNotFound indicates no storage handle exists for the tenant.
var ErrTenantNotFound = errors.New("tenant not found")

// Registry owns the mapping from tenant id to a live storage handle. All
// mutating operations run inside one exclusive critical section so concurrent
// first-access for the same tenant never yields two distinct handles.
type Registry struct {
	mu      sync.Mutex
	dataDir string
	logger  *slog.Logger
	handles map[string]*transcripts.Store
}

// New constructs a registry rooted at dataDir. Databases are created lazily
// on provision.
func New(dataDir string, logger *slog.Logger) *Registry {
	return &Registry{
		dataDir: dataDir,
		logger:  logging.NewComponentLogger(logger, "registry"),
		handles: make(map[string]*transcripts.Store),
	}
}

// Resolve returns the tenant's handle without creating one.
func (r *Registry) Resolve(tenantID string) (*transcripts.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.handles[tenantID]
	if !ok {
		return nil, fmt.Errorf("tenant %q: %w", tenantID, ErrTenantNotFound)
	}
	return store, nil
}

// Provision returns the tenant's handle, creating backing storage and applying
// the schema on first access. Idempotent under concurrent calls for the same id.
func (r *Registry) Provision(tenantID string) (*transcripts.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.provisionLocked(tenantID)
}

// Rebuild evicts any existing handle and storage for the tenant and provisions
// a fresh one as a single atomic step. Used before re-ingesting a tenant's
// data so no caller ever resolves a handle onto deleted storage.
func (r *Registry) Rebuild(tenantID string) (*transcripts.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.evictLocked(tenantID); err != nil && !errors.Is(err, ErrTenantNotFound) {
		return nil, err
	}
	return r.provisionLocked(tenantID)
}

// Replace evicts any existing handle and deletes its backing storage. Absent
// tenants are a no-op, unlike Evict.
func (r *Registry) Replace(tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.evictLocked(tenantID)
	if errors.Is(err, ErrTenantNotFound) {
		return nil
	}
	return err
}

// Evict closes the tenant's handle and deletes its backing storage. Evicting
// an absent tenant reports ErrTenantNotFound; the caller decides whether that
// is fatal.
func (r *Registry) Evict(tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictLocked(tenantID)
}

// Close closes every live handle. Backing storage is left on disk; the next
// process start wipes it via Reset.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for id, store := range r.handles {
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close tenant %q: %w", id, err)
		}
		delete(r.handles, id)
	}
	return firstErr
}

// Reset deletes all tenant storage under the data dir and recreates it empty.
// This is the destructive cold-start side effect every server start performs:
// tenant datasets never outlive the process that ingested them.
func (r *Registry) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, store := range r.handles {
		_ = store.Close()
		delete(r.handles, id)
	}
	if err := os.RemoveAll(r.dataDir); err != nil {
		return fmt.Errorf("remove data dir: %w", err)
	}
	if err := os.MkdirAll(r.dataDir, 0o755); err != nil {
		return fmt.Errorf("recreate data dir: %w", err)
	}
	r.logger.Info("tenant storage wiped", logging.String("data_dir", r.dataDir))
	return nil
}

func (r *Registry) provisionLocked(tenantID string) (*transcripts.Store, error) {
	if store, ok := r.handles[tenantID]; ok {
		return store, nil
	}

	if err := os.MkdirAll(r.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	store, err := transcripts.Open(r.dbPath(tenantID), r.logger)
	if err != nil {
		return nil, fmt.Errorf("provision tenant %q: %w", tenantID, err)
	}
	r.handles[tenantID] = store
	r.logger.Info("tenant provisioned",
		logging.String(logging.FieldTenant, tenantID),
		logging.String("db_path", store.Path()),
	)
	return store, nil
}

func (r *Registry) evictLocked(tenantID string) error {
	store, ok := r.handles[tenantID]
	if ok {
		if err := store.Close(); err != nil {
			r.logger.Warn("close evicted tenant handle",
				logging.String(logging.FieldTenant, tenantID), logging.Error(err))
		}
		delete(r.handles, tenantID)
	}

	if err := r.removeStorage(tenantID); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("tenant %q: %w", tenantID, ErrTenantNotFound)
	}
	r.logger.Info("tenant evicted", logging.String(logging.FieldTenant, tenantID))
	return nil
}

func (r *Registry) removeStorage(tenantID string) error {
	base := r.dbPath(tenantID)
	for _, path := range []string{base, base + "-wal", base + "-shm"} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove tenant storage %q: %w", path, err)
		}
	}
	return nil
}

func (r *Registry) dbPath(tenantID string) string {
	return filepath.Join(r.dataDir, textutil.SanitizeToken(tenantID)+".sqlite")
}
