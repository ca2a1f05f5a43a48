package llm

import (
	"context"
	"time"

	"github.com/perfeval/backend/internal/logger"
	"github.com/perfeval/backend/internal/metrics"
)

// Client completes a single prompt with deterministic sampling.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}

// observe records metrics, tracking and a log line for one finished call.
func observe(tracker *Tracker, call APICall, start time.Time, err error) {
	call.Timestamp = start
	call.Duration = time.Since(start)
	if err != nil {
		call.Error = err.Error()
	}
	tracker.Track(call)

	metrics.LLMRequestsTotal.WithLabelValues(call.Provider, call.Model, metrics.Status(err)).Inc()
	metrics.LLMRequestDuration.WithLabelValues(call.Provider, call.Model).Observe(call.Duration.Seconds())

	entry := logger.WithLLM(call.Provider, call.Model)
	fields := map[string]interface{}{
		"call_type": call.CallType,
		"status":    call.Status,
		"duration":  call.Duration.String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		entry.WithFields(fields).Warn("LLM request failed")
		return
	}
	entry.WithFields(fields).Debug("LLM request completed")
}
