package services

import (
	"context"
	"fmt"

	"github.com/perfeval/backend/internal/logger"
	"github.com/perfeval/backend/internal/metrics"
	"github.com/perfeval/backend/internal/models"
	"github.com/perfeval/backend/internal/vectorstore"
)

// Namespace is the vector store partition holding one employee's segments.
func Namespace(employeeID string) string {
	return "employee-" + employeeID
}

// RecordID is the storage key of the i-th segment stored for an employee.
func RecordID(employeeID string, i int) string {
	return fmt.Sprintf("%s-%d", employeeID, i)
}

type Indexer struct {
	store vectorstore.Store
}

func NewIndexer(store vectorstore.Store) *Indexer {
	return &Indexer{store: store}
}

// Store upserts segments into the employee's namespace in a single batch and
// returns the record ids written. An empty slice makes no call. Records are not
// guaranteed to be searchable when Store returns.
func (i *Indexer) Store(ctx context.Context, employeeID string, segments []models.EmployeeSegment) ([]string, error) {
	if len(segments) == 0 {
		return nil, nil
	}

	records := make([]vectorstore.Record, len(segments))
	ids := make([]string, len(segments))
	for n, seg := range segments {
		ids[n] = RecordID(employeeID, n)
		records[n] = vectorstore.Record{ID: ids[n], Text: seg.Text}
	}

	namespace := Namespace(employeeID)
	if err := i.store.Upsert(ctx, namespace, records); err != nil {
		return nil, fmt.Errorf("%w: upsert %d records into %s: %v", ErrIndexingFailure, len(records), namespace, err)
	}

	metrics.SegmentsIndexed.Add(float64(len(records)))
	logger.WithVectorStore(i.store.Name(), namespace).WithField("records", len(records)).Info("Stored employee log segments")
	return ids, nil
}
