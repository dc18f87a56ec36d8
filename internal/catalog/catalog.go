package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"asset-library/internal/assettypes"
	"asset-library/internal/logging"
	"asset-library/internal/metrics"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by Open when another process owns the library.
var ErrLocked = errors.New("library is in use by another process")

// IDLister reports which entry directories exist on disk.
type IDLister interface {
	ListExistingIDs(kind assettypes.Kind) (map[string]struct{}, error)
}

// Options selects and locates the catalog backend.
type Options struct {
	Backend  string // "sqlite" or "badger"
	Path     string // database file (sqlite) or directory (badger)
	LockPath string // single-owner lock file; empty disables locking
}

// Catalog holds one ordered record list per kind. Every read reconciles the
// list against the directories on disk and drops records whose directory is
// gone.
type Catalog struct {
	backend Backend
	ids     IDLister
	lock    *flock.Flock
	mu      map[assettypes.Kind]*sync.Mutex
}

// New wraps an already open backend.
func New(backend Backend, ids IDLister) *Catalog {
	mu := make(map[assettypes.Kind]*sync.Mutex, len(assettypes.Kinds))
	for _, kind := range assettypes.Kinds {
		mu[kind] = &sync.Mutex{}
	}
	return &Catalog{backend: backend, ids: ids, mu: mu}
}

// Open acquires the library lock and opens the configured backend.
func Open(ctx context.Context, opts Options, ids IDLister) (*Catalog, error) {
	var lock *flock.Flock
	if opts.LockPath != "" {
		lock = flock.New(opts.LockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w (lock held on %s)", ErrLocked, opts.LockPath)
		}
	}

	var (
		backend Backend
		err     error
	)
	switch opts.Backend {
	case "", "sqlite":
		backend, err = OpenSQLite(ctx, opts.Path)
	case "badger":
		backend, err = OpenBadger(opts.Path)
	default:
		err = fmt.Errorf("unknown catalog backend %q", opts.Backend)
	}
	if err != nil {
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, err
	}

	c := New(backend, ids)
	c.lock = lock
	logging.Info("Catalog opened (%s backend at %s)", opts.Backend, opts.Path)
	return c, nil
}

// Close closes the backend and releases the library lock.
func (c *Catalog) Close() error {
	err := c.backend.Close()
	if c.lock != nil {
		if unlockErr := c.lock.Unlock(); unlockErr != nil {
			logging.Warn("failed to release catalog lock: %v", unlockErr)
		}
	}
	return err
}

func (c *Catalog) lockKind(kind assettypes.Kind) (func(), error) {
	mu, ok := c.mu[kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	mu.Lock()
	return mu.Unlock, nil
}

// Load returns the records of kind in insertion order, after dropping those
// whose directory no longer exists. If anything was dropped the pruned list
// is written back.
func (c *Catalog) Load(ctx context.Context, kind assettypes.Kind) ([]Record, error) {
	unlock, err := c.lockKind(kind)
	if err != nil {
		return nil, err
	}
	defer unlock()

	records, err := c.reconcile(ctx, kind)
	if err != nil {
		return nil, err
	}
	return cloneAll(records), nil
}

// Append adds rec to the end of the list.
func (c *Catalog) Append(ctx context.Context, kind assettypes.Kind, rec Record) error {
	unlock, err := c.lockKind(kind)
	if err != nil {
		return err
	}
	defer unlock()

	records, err := c.read(ctx, kind)
	if err != nil {
		return err
	}
	return c.write(ctx, kind, append(records, rec.clone()))
}

// Rename sets the display name of the record with id and returns the updated
// record. Missing ids yield assettypes.ErrNotFound.
func (c *Catalog) Rename(ctx context.Context, kind assettypes.Kind, id, name string) (Record, error) {
	unlock, err := c.lockKind(kind)
	if err != nil {
		return Record{}, err
	}
	defer unlock()

	records, err := c.reconcile(ctx, kind)
	if err != nil {
		return Record{}, err
	}

	for i := range records {
		if records[i].ID != id {
			continue
		}
		records[i].Name = name
		if err := c.write(ctx, kind, records); err != nil {
			return Record{}, err
		}
		return records[i].clone(), nil
	}
	return Record{}, fmt.Errorf("%s %s: %w", kind, id, assettypes.ErrNotFound)
}

// Remove deletes the record with id. Removing a missing id succeeds.
func (c *Catalog) Remove(ctx context.Context, kind assettypes.Kind, id string) error {
	unlock, err := c.lockKind(kind)
	if err != nil {
		return err
	}
	defer unlock()

	records, err := c.read(ctx, kind)
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return c.write(ctx, kind, kept)
}

// Get returns the record with id after reconciliation.
func (c *Catalog) Get(ctx context.Context, kind assettypes.Kind, id string) (Record, error) {
	records, err := c.Load(ctx, kind)
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%s %s: %w", kind, id, assettypes.ErrNotFound)
}

// EntryCounts returns the number of records per kind. It satisfies the
// metrics collector's StatsProvider.
func (c *Catalog) EntryCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(assettypes.Kinds))
	for _, kind := range assettypes.Kinds {
		records, err := c.Load(ctx, kind)
		if err != nil {
			return nil, err
		}
		counts[string(kind)] = len(records)
	}
	return counts, nil
}

// reconcile must be called with the kind lock held.
func (c *Catalog) reconcile(ctx context.Context, kind assettypes.Kind) ([]Record, error) {
	records, err := c.read(ctx, kind)
	if err != nil {
		return nil, err
	}

	existing, err := c.ids.ListExistingIDs(kind)
	if err != nil {
		return nil, err
	}

	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if _, ok := existing[r.ID]; ok {
			kept = append(kept, r)
		}
	}

	if pruned := len(records) - len(kept); pruned > 0 {
		logging.Info("Pruned %d %s record(s) whose directories are missing", pruned, kind)
		metrics.CatalogPrunedTotal.WithLabelValues(string(kind)).Add(float64(pruned))
		if err := c.write(ctx, kind, kept); err != nil {
			return nil, err
		}
	}

	metrics.LibraryEntries.WithLabelValues(string(kind)).Set(float64(len(kept)))
	return kept, nil
}

func (c *Catalog) read(ctx context.Context, kind assettypes.Kind) ([]Record, error) {
	raw, found, err := c.backend.Get(ctx, string(kind))
	if err != nil {
		return nil, assettypes.NewStorageError("read catalog", string(kind), err)
	}
	if !found || len(raw) == 0 {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s catalog: %w", kind, err)
	}
	return records, nil
}

func (c *Catalog) write(ctx context.Context, kind assettypes.Kind, records []Record) error {
	start := time.Now()

	stored := make([]Record, len(records))
	for i, r := range records {
		r.ThumbnailPath = ""
		stored[i] = r
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode %s catalog: %w", kind, err)
	}

	err = c.backend.Put(ctx, string(kind), raw)
	metrics.CatalogWriteDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.CatalogWritesTotal.WithLabelValues(string(kind), metrics.StatusLabel(err)).Inc()
	if err != nil {
		return assettypes.NewStorageError("write catalog", string(kind), err)
	}
	return nil
}
