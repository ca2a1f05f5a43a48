package services

import (
	"context"
	"fmt"

	"github.com/perfeval/backend/internal/logger"
	"github.com/perfeval/backend/internal/metrics"
	"github.com/perfeval/backend/internal/vectorstore"
)

// NoLogsFoundSentinel is returned as context when an employee namespace has no hits.
const NoLogsFoundSentinel = "No logs found for this employee."

const defaultTopK = 3

type Retriever struct {
	store vectorstore.Store
}

func NewRetriever(store vectorstore.Store) *Retriever {
	return &Retriever{store: store}
}

// Retrieve returns the text of the best hit for query in the employee's
// namespace, or NoLogsFoundSentinel when there are none. topK is only a hint
// to the backend; everything past the first hit is discarded.
func (r *Retriever) Retrieve(ctx context.Context, employeeID, query string, topK int) (string, error) {
	if topK <= 0 {
		topK = defaultTopK
	}

	namespace := Namespace(employeeID)
	hits, err := r.store.Search(ctx, namespace, vectorstore.Query{Text: query, TopK: topK})
	if err != nil {
		return "", fmt.Errorf("%w: search %s: %v", ErrRetrievalFailure, namespace, err)
	}
	if len(hits) == 0 {
		metrics.RetrievalSentinelTotal.Inc()
		logger.WithVectorStore(r.store.Name(), namespace).Info("No stored logs found for employee")
		return NoLogsFoundSentinel, nil
	}

	logger.WithVectorStore(r.store.Name(), namespace).WithFields(map[string]interface{}{
		"hits":      len(hits),
		"top_id":    hits[0].ID,
		"top_score": hits[0].Score,
	}).Debug("Retrieved employee context")
	return hits[0].Text(), nil
}
