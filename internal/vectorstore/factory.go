package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/perfeval/backend/internal/config"
	"gorm.io/gorm"
)

// New builds the backend named by cfg.Backend. database is required for
// pgvector and embedder supplies its vectors; both are ignored otherwise.
func New(ctx context.Context, cfg config.VectorStoreConfig, database *gorm.DB, embedder Embedder) (Store, error) {
	switch cfg.Backend {
	case "pinecone":
		return NewPineconeStore(ctx, PineconeConfig{
			APIKey:          cfg.PineconeAPIKey,
			IndexName:       cfg.PineconeIndexName,
			IndexHost:       cfg.PineconeIndexHost,
			APIVersion:      cfg.PineconeAPIVersion,
			ControlPlaneURL: cfg.PineconeControlPlaneURL,
			Timeout:         cfg.Timeout,
		})
	case "pgvector":
		if database == nil || embedder == nil {
			return nil, errors.New("pgvector store requires a database and an embedder")
		}
		return NewPgvectorStore(database, embedder), nil
	case "bolt":
		return NewBoltStore(cfg.BoltPath)
	default:
		return nil, fmt.Errorf("unknown vector store %q", cfg.Backend)
	}
}

// EventuallyConsistent reports whether searches may miss just-upserted records.
func EventuallyConsistent(backend string) bool {
	return backend == "pinecone"
}
