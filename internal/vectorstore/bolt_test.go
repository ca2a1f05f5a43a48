package vectorstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func newTestBolt(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "segments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewBoltStoreFailsWhileFileIsLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.db")
	held, err := NewBoltStore(path)
	require.NoError(t, err)
	defer held.Close()

	start := time.Now()
	_, err = NewBoltStore(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, bbolt.ErrTimeout)
	assert.Less(t, time.Since(start), 10*boltLockTimeout)
}

func TestBoltSearchUnknownNamespaceIsEmpty(t *testing.T) {
	store := newTestBolt(t)

	hits, err := store.Search(context.Background(), "employee-E001", Query{Text: "anything"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBoltUpsertOverwritesSameID(t *testing.T) {
	store := newTestBolt(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "employee-E001", []Record{{ID: "E001-0", Text: "first version"}}))
	require.NoError(t, store.Upsert(ctx, "employee-E001", []Record{{ID: "E001-0", Text: "second version"}}))

	hits, err := store.Search(ctx, "employee-E001", Query{Text: "version", TopK: 5})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "second version", hits[0].Text())
}

func TestBoltRanksByOverlapAndHonoursTopK(t *testing.T) {
	store := newTestBolt(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "employee-E001", []Record{
		{ID: "E001-0", Text: "attended 1 meeting"},
		{ID: "E001-1", Text: "Employee E001 completed 11 tasks and made 5 commits"},
		{ID: "E001-2", Text: "worked actively for 6.1 hours"},
	}))

	hits, err := store.Search(ctx, "employee-E001", Query{Text: "Give all logs for employee E001", TopK: 2})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "E001-1", hits[0].ID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestBoltNamespacesAreIsolated(t *testing.T) {
	store := newTestBolt(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "employee-E001", []Record{{ID: "E001-0", Text: "Employee E001 log"}}))

	hits, err := store.Search(ctx, "employee-E002", Query{Text: "Employee E001 log"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBoltRejectsEmptyBatchAndNamespace(t *testing.T) {
	store := newTestBolt(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Upsert(ctx, "employee-E001", nil), ErrEmptyBatch)
	assert.ErrorIs(t, store.Upsert(ctx, " ", []Record{{ID: "x", Text: "y"}}), ErrInvalidNamespace)
	_, err := store.Search(ctx, "", Query{Text: "q"})
	assert.ErrorIs(t, err, ErrInvalidNamespace)
}

func TestOverlapScore(t *testing.T) {
	q := tokenSet("Give all logs for employee E001")
	assert.Zero(t, overlapScore(q, ""))
	assert.Zero(t, overlapScore(q, "nothing shared here"))
	assert.InDelta(t, 1.0, overlapScore(q, "give all logs for employee e001"), 1e-9)
}
