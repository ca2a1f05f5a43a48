package services

import (
	"context"
	"strings"
	"sync"

	"github.com/perfeval/backend/internal/models"
	"github.com/perfeval/backend/internal/vectorstore"
)

// memoryStore is a read-after-write consistent in-memory vector store.
type memoryStore struct {
	mu          sync.Mutex
	namespaces  map[string]map[string]string
	order       map[string][]string
	upsertCalls int
	searchCalls int
	upsertErr   error
	searchErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		namespaces: make(map[string]map[string]string),
		order:      make(map[string][]string),
	}
}

func (m *memoryStore) Name() string { return "memory" }

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) Upsert(_ context.Context, namespace string, records []vectorstore.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if len(records) == 0 {
		return vectorstore.ErrEmptyBatch
	}
	ns, ok := m.namespaces[namespace]
	if !ok {
		ns = make(map[string]string)
		m.namespaces[namespace] = ns
	}
	for _, r := range records {
		if _, exists := ns[r.ID]; !exists {
			m.order[namespace] = append(m.order[namespace], r.ID)
		}
		ns[r.ID] = r.Text
	}
	return nil
}

func (m *memoryStore) Search(_ context.Context, namespace string, query vectorstore.Query) ([]vectorstore.Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var hits []vectorstore.Hit
	for _, id := range m.order[namespace] {
		if len(hits) == query.TopK {
			break
		}
		hits = append(hits, vectorstore.Hit{
			ID:     id,
			Score:  1,
			Fields: map[string]any{vectorstore.TextField: m.namespaces[namespace][id]},
		})
	}
	return hits, nil
}

func (m *memoryStore) records(namespace string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.namespaces[namespace]))
	for k, v := range m.namespaces[namespace] {
		out[k] = v
	}
	return out
}

// echoLLM answers with a report that quotes the prompt's log section.
type echoLLM struct {
	mu      sync.Mutex
	prompts []string
	err     error
	reply   string
}

func (e *echoLLM) Provider() string { return "fake" }

func (e *echoLLM) Model() string { return "echo" }

func (e *echoLLM) Complete(_ context.Context, prompt string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prompts = append(e.prompts, prompt)
	if e.err != nil {
		return "", e.err
	}
	if e.reply != "" {
		return e.reply, nil
	}
	logs := prompt[strings.LastIndex(prompt, "Logs:\n")+len("Logs:\n"):]
	return "\n\nEmployee ID: see logs\n\n\n\nSummary:\n" + logs + "\n\n\nPerformance Rating: Good\n\n", nil
}

func (e *echoLLM) lastPrompt() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.prompts) == 0 {
		return ""
	}
	return e.prompts[len(e.prompts)-1]
}

type recordingHistory struct {
	NoopHistory
	mu       sync.Mutex
	finished []models.EvaluationRun
}

func (r *recordingHistory) Finish(_ context.Context, run *models.EvaluationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, *run)
	return nil
}

// countingBarrier records the namespaces it was asked to wait for.
type countingBarrier struct {
	mu         sync.Mutex
	namespaces []string
}

func (c *countingBarrier) Wait(_ context.Context, namespace string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.namespaces = append(c.namespaces, namespace)
	return nil
}
