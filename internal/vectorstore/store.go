package vectorstore

import (
	"context"
	"errors"
	"strings"
)

// TextField is the record field that holds segment content and is embedded by the backend.
const TextField = "text"

var (
	ErrEmptyBatch       = errors.New("vectorstore: empty record batch")
	ErrInvalidNamespace = errors.New("vectorstore: invalid namespace")
)

// Record is one document written to a namespace.
type Record struct {
	ID   string
	Text string
}

// Query is a semantic search request. TopK is a result-limit hint.
type Query struct {
	Text string
	TopK int
}

// Hit is one search result, ordered best first.
type Hit struct {
	ID     string
	Score  float64
	Fields map[string]any
}

// Text returns the text field of the hit, or "" when absent.
func (h Hit) Text() string {
	if v, ok := h.Fields[TextField].(string); ok {
		return v
	}
	return ""
}

// Store is an external, namespaced vector index. Embedding and similarity search
// are the backend's job; implementations only move records in and hits out.
type Store interface {
	Upsert(ctx context.Context, namespace string, records []Record) error
	Search(ctx context.Context, namespace string, query Query) ([]Hit, error)
	Name() string
	Close() error
}

func validate(namespace string) error {
	if strings.TrimSpace(namespace) == "" {
		return ErrInvalidNamespace
	}
	return nil
}
