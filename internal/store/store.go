package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the in-memory, file-persisted record table. One reader-writer
// lock guards both the map and the persistence step: a mutation holds the
// write lock for its validate-mutate-persist-report sequence so that the
// file on disk and the in-memory map never observe an interleaved write.
type Store struct {
	mu       sync.RWMutex
	records  map[string]Record
	provider DatastoreProvider
	metrics  MetricsSink
	now      func() time.Time
}

// New creates a Store backed by provider, loading any existing records.
// A nil metrics sink is replaced with a no-op implementation so callers
// never need a nil check.
func New(provider DatastoreProvider, metrics MetricsSink) (*Store, error) {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	s := &Store{
		records:  make(map[string]Record),
		provider: provider,
		metrics:  metrics,
		now:      time.Now,
	}
	if err := provider.Initialize(); err != nil {
		return nil, &IoError{Err: err}
	}
	loaded, err := provider.LoadAll()
	if err != nil {
		return nil, &IoError{Err: err}
	}
	s.records = loaded
	s.metrics.SetActiveRecords(len(s.records))
	return s, nil
}

// Get fetches a single record by id.
func (s *Store) Get(id string) (Record, error) {
	start := s.now()
	s.mu.RLock()
	r, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		s.metrics.RecordOperationFailure("read", "not_found", time.Since(start).Seconds())
		return Record{}, ErrNotFound
	}
	s.metrics.RecordOperationSuccess("read", time.Since(start).Seconds())
	return r, nil
}

// List returns a stable page of records ordered by CreatedAt ascending,
// ties broken by ID.
// page is 1-indexed; per_page must be in [1, 1000].
func (s *Store) List(page, perPage int) (ListResult, error) {
	start := s.now()
	if page < 1 || perPage < 1 || perPage > 1000 {
		s.metrics.RecordOperationFailure("list", "invalid_argument", time.Since(start).Seconds())
		return ListResult{}, ErrInvalidArgument
	}

	s.mu.RLock()
	all := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		all = append(all, r)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := len(all)
	from := (page - 1) * perPage
	if from > total {
		from = total
	}
	to := from + perPage
	if to > total {
		to = total
	}

	s.metrics.RecordOperationSuccess("list", time.Since(start).Seconds())
	return ListResult{Records: all[from:to], Total: total, Page: page, PerPage: perPage}, nil
}

// Create validates, checks for a (name, record_type) duplicate, persists,
// and returns the new record. The write lock is held across validation,
// the duplicate check, the mutation, and the persistence step.
func (s *Store) Create(draft CreateDraft) (Record, error) {
	start := s.now()

	r := Record{
		ID:         uuid.New().String(),
		Name:       draft.Name,
		IP:         draft.IP,
		TTL:        draft.TTL,
		RecordType: draft.RecordType,
		Class:      draft.Class,
		Value:      draft.Value,
	}
	if r.TTL == 0 {
		r.TTL = 300
	}
	if r.RecordType == "" {
		r.RecordType = "A"
	}
	if r.Class == "" {
		r.Class = "IN"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Validate(r); err != nil {
		s.metrics.RecordOperationFailure("create", "validation", time.Since(start).Seconds())
		return Record{}, err
	}

	for _, existing := range s.records {
		if existing.Name == r.Name && existing.RecordType == r.RecordType {
			s.metrics.RecordOperationFailure("create", "duplicate", time.Since(start).Seconds())
			return Record{}, ErrDuplicate
		}
	}

	now := s.now()
	r.CreatedAt = now
	r.UpdatedAt = now

	s.records[r.ID] = r
	if err := s.persistLocked(); err != nil {
		delete(s.records, r.ID)
		s.metrics.RecordOperationFailure("create", "io", time.Since(start).Seconds())
		return Record{}, err
	}

	s.metrics.SetActiveRecords(len(s.records))
	s.metrics.RecordOperationSuccess("create", time.Since(start).Seconds())
	return r, nil
}

// Update applies a partial patch to an existing record. Fields left nil in
// the patch keep their prior value; a non-nil pointer to "" for Value
// clears it. CreatedAt is preserved; UpdatedAt is refreshed.
func (s *Store) Update(id string, patch UpdatePatch) (Record, error) {
	start := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[id]
	if !ok {
		s.metrics.RecordOperationFailure("update", "not_found", time.Since(start).Seconds())
		return Record{}, ErrNotFound
	}

	updated := existing
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.IP != nil {
		updated.IP = *patch.IP
	}
	if patch.TTL != nil {
		updated.TTL = *patch.TTL
	}
	if patch.RecordType != nil {
		updated.RecordType = *patch.RecordType
	}
	if patch.Class != nil {
		updated.Class = *patch.Class
	}
	if patch.Value != nil {
		updated.Value = *patch.Value
	}

	if err := Validate(updated); err != nil {
		s.metrics.RecordOperationFailure("update", "validation", time.Since(start).Seconds())
		return Record{}, err
	}

	for otherID, other := range s.records {
		if otherID == id {
			continue
		}
		if other.Name == updated.Name && other.RecordType == updated.RecordType {
			s.metrics.RecordOperationFailure("update", "duplicate", time.Since(start).Seconds())
			return Record{}, ErrDuplicate
		}
	}

	updated.UpdatedAt = s.now()

	prior := s.records[id]
	s.records[id] = updated
	if err := s.persistLocked(); err != nil {
		s.records[id] = prior
		s.metrics.RecordOperationFailure("update", "io", time.Since(start).Seconds())
		return Record{}, err
	}

	s.metrics.RecordOperationSuccess("update", time.Since(start).Seconds())
	return updated, nil
}

// Delete removes a record by id.
func (s *Store) Delete(id string) error {
	start := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[id]
	if !ok {
		s.metrics.RecordOperationFailure("delete", "not_found", time.Since(start).Seconds())
		return ErrNotFound
	}

	delete(s.records, id)
	if err := s.persistLocked(); err != nil {
		s.records[id] = existing
		s.metrics.RecordOperationFailure("delete", "io", time.Since(start).Seconds())
		return err
	}

	s.metrics.SetActiveRecords(len(s.records))
	s.metrics.RecordOperationSuccess("delete", time.Since(start).Seconds())
	return nil
}

// UpsertLegacy writes a full record as-is, overwriting any record sharing
// its id, or inserting it if the id is new. An overwrite without its own
// CreatedAt keeps the existing record's CreatedAt. It validates the record
// before mutating or persisting, same as Update. Failures are returned and
// counted in the metrics sink; the legacy caller (the fire-and-forget
// POST /update handler) only logs them.
func (s *Store) UpsertLegacy(r Record) error {
	start := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	prior, existed := s.records[r.ID]
	now := s.now()
	if r.CreatedAt.IsZero() {
		if existed {
			r.CreatedAt = prior.CreatedAt
		} else {
			r.CreatedAt = now
		}
	}
	r.UpdatedAt = now

	if err := Validate(r); err != nil {
		s.metrics.RecordOperationFailure("update_legacy", "validation", time.Since(start).Seconds())
		return err
	}

	s.records[r.ID] = r
	if err := s.persistLocked(); err != nil {
		if existed {
			s.records[r.ID] = prior
		} else {
			delete(s.records, r.ID)
		}
		s.metrics.RecordOperationFailure("update_legacy", "io", time.Since(start).Seconds())
		return err
	}

	s.metrics.SetActiveRecords(len(s.records))
	s.metrics.RecordOperationSuccess("update_legacy", time.Since(start).Seconds())
	return nil
}

// Resolve looks up a record by (name, record_type) for the DNS resolver.
// Matching is exact and case-sensitive: the store never normalizes names.
func (s *Store) Resolve(name string, recordType string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.Name == name && r.RecordType == recordType {
			return r, true
		}
	}
	return Record{}, false
}

// persistLocked writes the current record set to the backing datastore.
// The caller must hold s.mu for writing.
func (s *Store) persistLocked() error {
	if err := s.provider.SaveAll(s.records); err != nil {
		return &IoError{Err: err}
	}
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordOperationSuccess(string, float64)        {}
func (noopMetrics) RecordOperationFailure(string, string, float64) {}
func (noopMetrics) SetActiveRecords(int)                          {}
