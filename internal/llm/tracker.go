package llm

import (
	"fmt"
	"sync"
	"time"
)

const maxTrackedCalls = 100

// APICall is one tracked request to a model endpoint.
type APICall struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Provider  string                 `json:"provider"`
	Endpoint  string                 `json:"endpoint"`
	Model     string                 `json:"model"`
	CallType  string                 `json:"callType"` // "generate", "embedding"
	Payload   map[string]interface{} `json:"payload"`
	Status    int                    `json:"status"`
	Duration  time.Duration          `json:"duration"`
	Response  string                 `json:"response"`
	Error     string                 `json:"error,omitempty"`
}

// Tracker keeps the most recent model calls in memory for the admin API.
// It is safe for concurrent use and shared by every client of the process.
type Tracker struct {
	mu    sync.RWMutex
	calls []APICall
}

func NewTracker() *Tracker {
	return &Tracker{calls: make([]APICall, 0)}
}

// Calls returns a copy of the tracked calls, oldest first
func (t *Tracker) Calls() []APICall {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	calls := make([]APICall, len(t.calls))
	copy(calls, t.calls)
	return calls
}

// Clear drops the call history
func (t *Tracker) Clear() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = make([]APICall, 0)
}

// Track records a finished call. A nil tracker ignores it.
func (t *Tracker) Track(call APICall) {
	if t == nil {
		return
	}
	if call.ID == "" {
		call.ID = fmt.Sprintf("llm_%d", time.Now().UnixNano())
	}
	if call.Timestamp.IsZero() {
		call.Timestamp = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Keep only the last calls to bound memory
	if len(t.calls) >= maxTrackedCalls {
		t.calls = t.calls[1:]
	}
	t.calls = append(t.calls, call)
}
