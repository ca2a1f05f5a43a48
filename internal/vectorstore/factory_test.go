package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/perfeval/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsBolt(t *testing.T) {
	store, err := New(context.Background(), config.VectorStoreConfig{
		Backend:  "bolt",
		BoltPath: filepath.Join(t.TempDir(), "nested", "segments.db"),
	}, nil, nil)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, "bolt", store.Name())
}

func TestNewRejectsMisconfiguredBackends(t *testing.T) {
	_, err := New(context.Background(), config.VectorStoreConfig{Backend: "pgvector"}, nil, nil)
	assert.Error(t, err)

	_, err = New(context.Background(), config.VectorStoreConfig{Backend: "redis"}, nil, nil)
	assert.Error(t, err)

	_, err = New(context.Background(), config.VectorStoreConfig{Backend: "pinecone"}, nil, nil)
	assert.Error(t, err)
}

func TestEventuallyConsistent(t *testing.T) {
	assert.True(t, EventuallyConsistent("pinecone"))
	assert.False(t, EventuallyConsistent("bolt"))
	assert.False(t, EventuallyConsistent("pgvector"))
}
