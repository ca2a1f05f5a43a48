package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaConfig configures a local or self-hosted Ollama endpoint.
type OllamaConfig struct {
	URL        string
	Model      string
	EmbedModel string
	Timeout    time.Duration
}

type OllamaClient struct {
	baseURL    string
	llmModel   string
	embedModel string
	client     *http.Client
	tracker    *Tracker
}

type OllamaGenerateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type OllamaGenerateResponse struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
}

type OllamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type OllamaEmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

func NewOllamaClient(cfg OllamaConfig, tracker *Tracker) *OllamaClient {
	if cfg.URL == "" {
		cfg.URL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama2:13b"
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "nomic-embed-text"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 300 * time.Second // Default 5 minutes
	}
	return &OllamaClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		llmModel:   cfg.Model,
		embedModel: cfg.EmbedModel,
		client:     &http.Client{Timeout: timeout},
		tracker:    tracker,
	}
}

func (o *OllamaClient) Provider() string { return "ollama" }

func (o *OllamaClient) Model() string { return o.llmModel }

// Complete calls /api/generate without streaming at temperature 0
func (o *OllamaClient) Complete(ctx context.Context, prompt string) (text string, err error) {
	startTime := time.Now()
	call := APICall{
		Provider: o.Provider(),
		Endpoint: "/api/generate",
		Model:    o.llmModel,
		CallType: "generate",
		Payload:  map[string]interface{}{"prompt_length": len(prompt)},
	}
	defer func() {
		call.Response = text
		observe(o.tracker, call, startTime, err)
	}()

	var ollamaResp OllamaGenerateResponse
	status, err := o.post(ctx, "/api/generate", OllamaGenerateRequest{
		Model:  o.llmModel,
		Prompt: prompt,
		Stream: false,
		Options: map[string]interface{}{
			"temperature": 0,
		},
	}, &ollamaResp)
	call.Status = status
	if err != nil {
		return "", err
	}
	return ollamaResp.Response, nil
}

// Embed returns the embedding of text from the configured embedding model.
func (o *OllamaClient) Embed(ctx context.Context, text string) (vec []float32, err error) {
	startTime := time.Now()
	call := APICall{
		Provider: o.Provider(),
		Endpoint: "/api/embeddings",
		Model:    o.embedModel,
		CallType: "embedding",
		Payload:  map[string]interface{}{"text_length": len(text)},
	}
	defer func() {
		observe(o.tracker, call, startTime, err)
	}()

	var embResp OllamaEmbeddingResponse
	status, err := o.post(ctx, "/api/embeddings", OllamaEmbeddingRequest{Model: o.embedModel, Prompt: text}, &embResp)
	call.Status = status
	if err != nil {
		return nil, err
	}
	if len(embResp.Embedding) == 0 {
		return nil, errors.New("Ollama returned an empty embedding")
	}
	return embResp.Embedding, nil
}

func (o *OllamaClient) post(ctx context.Context, path string, body any, out any) (int, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBodyBytes, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("Ollama API returned status %d, body: %s", resp.StatusCode, string(respBodyBytes))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode Ollama response: %w", err)
	}
	return resp.StatusCode, nil
}
