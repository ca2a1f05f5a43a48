package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/perfeval/backend/internal/metrics"
	"go.etcd.io/bbolt"
)

// BoltStore is a local stand-in for a hosted index, used for development and
// single-node deployments. Each namespace is a bucket. Ranking is plain token
// overlap, so every stored record is returned in some order, the way a dense
// index always has a nearest neighbour.
type BoltStore struct {
	db *bbolt.DB
}

// boltLockTimeout bounds the wait for the file lock held by another process,
// such as cmd/seed running next to a live server.
const boltLockTimeout = time.Second

type boltRecord struct {
	Text string `json:"text"`
}

func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create bolt directory: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: boltLockTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Name() string { return "bolt" }

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Upsert(_ context.Context, namespace string, records []Record) (err error) {
	defer func() {
		metrics.VectorStoreRequestsTotal.WithLabelValues(s.Name(), "upsert", metrics.Status(err)).Inc()
	}()
	if err := validate(namespace); err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrEmptyBatch
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(namespace))
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", namespace, err)
		}
		for _, r := range records {
			data, err := json.Marshal(boltRecord{Text: r.Text})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(r.ID), data); err != nil {
				return fmt.Errorf("failed to put record %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

func (s *BoltStore) Search(_ context.Context, namespace string, query Query) (hits []Hit, err error) {
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
	qset := tokenSet(query.Text)

	err = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var rec boltRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("corrupt record %s: %w", k, err)
			}
			hits = append(hits, Hit{
				ID:     string(k),
				Score:  overlapScore(qset, rec.Text),
				Fields: map[string]any{TextField: rec.Text},
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// bolt iterates keys in byte order; ties keep that order
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func tokenSet(s string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// overlapScore is the Ochiai coefficient |A∩B| / sqrt(|A||B|) over token sets.
func overlapScore(qset map[string]struct{}, text string) float64 {
	tset := tokenSet(text)
	if len(qset) == 0 || len(tset) == 0 {
		return 0
	}
	inter := 0
	for t := range tset {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(qset))*float64(len(tset)))
}
