package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/perfeval/backend/internal/logger"
	"github.com/perfeval/backend/internal/metrics"
)

const defaultPineconeAPIVersion = "2025-01"

// PineconeConfig configures the Pinecone records API client.
type PineconeConfig struct {
	APIKey          string
	IndexName       string
	IndexHost       string // data plane host; resolved from IndexName when empty
	APIVersion      string
	ControlPlaneURL string
	Timeout         time.Duration
}

// PineconeStore talks to an index with integrated embedding, so records are
// upserted as plain text and searched with a text query.
type PineconeStore struct {
	host       string
	apiKey     string
	apiVersion string
	client     *http.Client
}

// NewPineconeStore builds a client, describing the index on the control plane
// when no host is configured.
func NewPineconeStore(ctx context.Context, cfg PineconeConfig) (*PineconeStore, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("pinecone: api key is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultPineconeAPIVersion
	}

	s := &PineconeStore{
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
		client:     &http.Client{Timeout: timeout},
	}

	host := cfg.IndexHost
	if host == "" {
		if cfg.IndexName == "" {
			return nil, errors.New("pinecone: index host or index name is required")
		}
		resolved, err := s.describeIndexHost(ctx, cfg.ControlPlaneURL, cfg.IndexName)
		if err != nil {
			return nil, err
		}
		host = resolved
	}
	s.host = normalizeHost(host)
	return s, nil
}

func (s *PineconeStore) Name() string { return "pinecone" }

func (s *PineconeStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// Upsert writes records as NDJSON; the index embeds the "text" field.
func (s *PineconeStore) Upsert(ctx context.Context, namespace string, records []Record) (err error) {
	defer func() {
		metrics.VectorStoreRequestsTotal.WithLabelValues(s.Name(), "upsert", metrics.Status(err)).Inc()
	}()
	if err := validate(namespace); err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrEmptyBatch
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, r := range records {
		if err := enc.Encode(map[string]string{"_id": r.ID, TextField: r.Text}); err != nil {
			return fmt.Errorf("failed to encode record %s: %w", r.ID, err)
		}
	}

	endpoint := fmt.Sprintf("%s/records/namespaces/%s/upsert", s.host, url.PathEscape(namespace))
	if err := s.do(ctx, endpoint, "application/x-ndjson", &body, nil); err != nil {
		return err
	}

	logger.WithVectorStore(s.Name(), namespace).WithField("records", len(records)).Debug("Upserted records")
	return nil
}

type pineconeSearchRequest struct {
	Query  pineconeQuery `json:"query"`
	Fields []string      `json:"fields"`
}

type pineconeQuery struct {
	Inputs map[string]string `json:"inputs"`
	TopK   int               `json:"top_k"`
}

type pineconeSearchResponse struct {
	Result struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Score  float64        `json:"_score"`
			Fields map[string]any `json:"fields"`
		} `json:"hits"`
	} `json:"result"`
}

// Search runs a text query against the namespace.
func (s *PineconeStore) Search(ctx context.Context, namespace string, query Query) (hits []Hit, err error) {
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

	payload, err := json.Marshal(pineconeSearchRequest{
		Query:  pineconeQuery{Inputs: map[string]string{TextField: query.Text}, TopK: topK},
		Fields: []string{TextField},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	var resp pineconeSearchResponse
	endpoint := fmt.Sprintf("%s/records/namespaces/%s/search", s.host, url.PathEscape(namespace))
	if err := s.do(ctx, endpoint, "application/json", bytes.NewReader(payload), &resp); err != nil {
		return nil, err
	}

	hits = make([]Hit, 0, len(resp.Result.Hits))
	for _, h := range resp.Result.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score, Fields: h.Fields})
	}
	return hits, nil
}

func (s *PineconeStore) describeIndexHost(ctx context.Context, controlPlaneURL, indexName string) (string, error) {
	if controlPlaneURL == "" {
		controlPlaneURL = "https://api.pinecone.io"
	}
	endpoint := fmt.Sprintf("%s/indexes/%s", strings.TrimRight(controlPlaneURL, "/"), url.PathEscape(indexName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinecone describe index failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("pinecone describe index returned status %d, body: %s", resp.StatusCode, string(body))
	}

	var desc struct {
		Host string `json:"host"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return "", fmt.Errorf("failed to decode index description: %w", err)
	}
	if desc.Host == "" {
		return "", fmt.Errorf("pinecone index %s has no host", indexName)
	}
	return desc.Host, nil
}

func (s *PineconeStore) do(ctx context.Context, endpoint, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("pinecone POST %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pinecone POST %s returned status %d, body: %s", endpoint, resp.StatusCode, string(respBody))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode pinecone response: %w", err)
		}
	}
	return nil
}

func (s *PineconeStore) setHeaders(req *http.Request) {
	req.Header.Set("Api-Key", s.apiKey)
	req.Header.Set("X-Pinecone-API-Version", s.apiVersion)
	req.Header.Set("Accept", "application/json")
}

func normalizeHost(host string) string {
	host = strings.TrimRight(host, "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return host
}
