package vectorstore

import (
	"context"
	"fmt"

	"github.com/perfeval/backend/internal/metrics"
	"github.com/perfeval/backend/internal/models"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Embedder turns text into a vector. The pgvector store delegates all embedding
// to an external model endpoint.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// PgvectorStore keeps segments in Postgres with the vector extension.
// The database handle is owned by the caller.
type PgvectorStore struct {
	db       *gorm.DB
	embedder Embedder
}

func NewPgvectorStore(db *gorm.DB, embedder Embedder) *PgvectorStore {
	return &PgvectorStore{db: db, embedder: embedder}
}

func (s *PgvectorStore) Name() string { return "pgvector" }

func (s *PgvectorStore) Close() error { return nil }

func (s *PgvectorStore) Upsert(ctx context.Context, namespace string, records []Record) (err error) {
	defer func() {
		metrics.VectorStoreRequestsTotal.WithLabelValues(s.Name(), "upsert", metrics.Status(err)).Inc()
	}()
	if err := validate(namespace); err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrEmptyBatch
	}

	rows := make([]models.LogSegmentVector, 0, len(records))
	for _, r := range records {
		vec, err := s.embedder.Embed(ctx, r.Text)
		if err != nil {
			return fmt.Errorf("failed to embed record %s: %w", r.ID, err)
		}
		rows = append(rows, models.LogSegmentVector{
			Namespace: namespace,
			RecordID:  r.ID,
			Text:      r.Text,
			Embedding: pgvector.NewVector(vec),
		})
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "record_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "embedding", "updated_at"}),
	}).Create(&rows).Error
}

type pgvectorHit struct {
	RecordID string
	Text     string
	Score    float64
}

func (s *PgvectorStore) Search(ctx context.Context, namespace string, query Query) (hits []Hit, err error) {
	defer func() {
		metrics.VectorStoreRequestsTotal.WithLabelValues(s.Name(), "search", metrics.Status(err)).Inc()
	}()
	if err := validate(namespace); err != nil {
		return nil, err
	}
	topK := query.TopK
	if topK <= 0 {
		topK = 3
	}

	vec, err := s.embedder.Embed(ctx, query.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	qv := pgvector.NewVector(vec)

	var rows []pgvectorHit
	err = s.db.WithContext(ctx).Raw(
		`SELECT record_id, text, 1 - (embedding <=> ?) AS score
		   FROM log_segment_vectors
		  WHERE namespace = ?
		  ORDER BY embedding <=> ?
		  LIMIT ?`,
		qv, namespace, qv, topK,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("pgvector search failed: %w", err)
	}

	hits = make([]Hit, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, Hit{ID: r.RecordID, Score: r.Score, Fields: map[string]any{TextField: r.Text}})
	}
	return hits, nil
}
