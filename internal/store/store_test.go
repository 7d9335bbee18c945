package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestreldns/rind/internal/store"
)

type fakeMetrics struct {
	successes map[string]int
	failures  map[string]int
	active    int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{successes: map[string]int{}, failures: map[string]int{}}
}

func (f *fakeMetrics) RecordOperationSuccess(op string, _ float64) { f.successes[op]++ }
func (f *fakeMetrics) RecordOperationFailure(op, _ string, _ float64) { f.failures[op]++ }
func (f *fakeMetrics) SetActiveRecords(count int) { f.active = count }

func newTestStore(t *testing.T) (*store.Store, *fakeMetrics) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.db")
	provider := store.NewFileDatastoreProvider(path)
	fm := newFakeMetrics()
	s, err := store.New(provider, fm)
	require.NoError(t, err)
	return s, fm
}

func TestCreateAssignsDefaultsAndPersists(t *testing.T) {
	s, fm := newTestStore(t)

	rec, err := s.Create(store.CreateDraft{Name: "example.com", IP: "192.0.2.1"})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, uint32(300), rec.TTL)
	assert.Equal(t, "A", rec.RecordType)
	assert.Equal(t, "IN", rec.Class)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
	assert.Equal(t, 1, fm.successes["create"])
	assert.Equal(t, 1, fm.active)
}

func TestCreateRejectsDuplicateNameAndType(t *testing.T) {
	s, fm := newTestStore(t)

	_, err := s.Create(store.CreateDraft{Name: "dup.example.com", IP: "192.0.2.1"})
	require.NoError(t, err)

	_, err = s.Create(store.CreateDraft{Name: "dup.example.com", IP: "192.0.2.2"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Equal(t, 1, fm.failures["create"])
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Create(store.CreateDraft{Name: "bad.example.com", RecordType: "A"})
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ip", verr.Field)
}

func TestGetReturnsNotFoundForUnknownID(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get("does-not-exist")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdatePreservesCreatedAtAndRefreshesUpdatedAt(t *testing.T) {
	s, _ := newTestStore(t)

	rec, err := s.Create(store.CreateDraft{Name: "update.example.com", IP: "192.0.2.1"})
	require.NoError(t, err)

	newIP := "192.0.2.2"
	updated, err := s.Update(rec.ID, store.UpdatePatch{IP: &newIP})
	require.NoError(t, err)

	assert.Equal(t, "192.0.2.2", updated.IP)
	assert.Equal(t, rec.CreatedAt, updated.CreatedAt)
	assert.True(t, !updated.UpdatedAt.Before(rec.UpdatedAt))
}

func TestUpdateClearsValueOnEmptyStringPatch(t *testing.T) {
	s, _ := newTestStore(t)

	rec, err := s.Create(store.CreateDraft{Name: "cname.example.com", RecordType: "CNAME", Value: "target.example.com"})
	require.NoError(t, err)

	empty := ""
	_, err = s.Update(rec.ID, store.UpdatePatch{Value: &empty})
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "value", verr.Field)
}

func TestDeleteRemovesRecord(t *testing.T) {
	s, fm := newTestStore(t)

	rec, err := s.Create(store.CreateDraft{Name: "del.example.com", IP: "192.0.2.1"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(rec.ID))
	_, err = s.Get(rec.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 0, fm.active)
}

func TestListPaginatesInCreatedAtOrder(t *testing.T) {
	s, _ := newTestStore(t)

	first, err := s.Create(store.CreateDraft{Name: "b.example.com", IP: "192.0.2.1"})
	require.NoError(t, err)
	second, err := s.Create(store.CreateDraft{Name: "a.example.com", IP: "192.0.2.2"})
	require.NoError(t, err)
	_, err = s.Create(store.CreateDraft{Name: "c.example.com", IP: "192.0.2.3"})
	require.NoError(t, err)

	page, err := s.List(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Records, 2)
	assert.Equal(t, first.ID, page.Records[0].ID)
	assert.Equal(t, second.ID, page.Records[1].ID)
}

func TestListRejectsOutOfRangePagination(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.List(0, 50)
	assert.ErrorIs(t, err, store.ErrInvalidArgument)

	_, err = s.List(1, 1001)
	assert.ErrorIs(t, err, store.ErrInvalidArgument)
}

func TestUpsertLegacyInsertsOrOverwritesByID(t *testing.T) {
	s, _ := newTestStore(t)

	rec := store.Record{ID: "legacy-1", Name: "legacy.example.com", IP: "192.0.2.9", TTL: 120, RecordType: "A", Class: "IN"}
	require.NoError(t, s.UpsertLegacy(rec))

	got, err := s.Get("legacy-1")
	require.NoError(t, err)
	assert.Equal(t, "legacy.example.com", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	rec.IP = "192.0.2.10"
	require.NoError(t, s.UpsertLegacy(rec))
	got2, err := s.Get("legacy-1")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.10", got2.IP)
	assert.Equal(t, got.CreatedAt, got2.CreatedAt)
}

func TestUpsertLegacyRejectsInvalidRecord(t *testing.T) {
	s, _ := newTestStore(t)

	var verr *store.ValidationError
	err := s.UpsertLegacy(store.Record{ID: "legacy-bad", Name: "", IP: "192.0.2.9", TTL: 120, RecordType: "A", Class: "IN"})
	require.ErrorAs(t, err, &verr)
	_, err = s.Get("legacy-bad")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.UpsertLegacy(store.Record{ID: "legacy-bad2", Name: "legacy.example.com", TTL: 120, RecordType: "A", Class: "IN"})
	require.ErrorAs(t, err, &verr)
	_, err = s.Get("legacy-bad2")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.UpsertLegacy(store.Record{ID: "legacy-bad3", Name: "legacy.example.com", IP: "192.0.2.9", TTL: store.MaxTTL + 1, RecordType: "A", Class: "IN"})
	require.ErrorAs(t, err, &verr)
	_, err = s.Get("legacy-bad3")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResolveMatchesOnNameAndRecordType(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Create(store.CreateDraft{Name: "resolve.example.com", IP: "192.0.2.5"})
	require.NoError(t, err)

	rec, ok := s.Resolve("resolve.example.com", "A")
	require.True(t, ok)
	assert.Equal(t, "192.0.2.5", rec.IP)

	_, ok = s.Resolve("resolve.example.com", "AAAA")
	assert.False(t, ok)
}

func TestStorePersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	provider := store.NewFileDatastoreProvider(path)
	s, err := store.New(provider, nil)
	require.NoError(t, err)

	_, err = s.Create(store.CreateDraft{Name: "reload.example.com", IP: "192.0.2.7"})
	require.NoError(t, err)

	reopened, err := store.New(store.NewFileDatastoreProvider(path), nil)
	require.NoError(t, err)

	rec, ok := reopened.Resolve("reload.example.com", "A")
	require.True(t, ok)
	assert.Equal(t, "192.0.2.7", rec.IP)
}
