package services

import (
	"context"
	"fmt"

	"github.com/perfeval/backend/internal/llm"
)

type ReportGenerator struct {
	client llm.Client
}

func NewReportGenerator(client llm.Client) *ReportGenerator {
	return &ReportGenerator{client: client}
}

// BuildPrompt fills the evaluation template for one employee.
func BuildPrompt(employeeID, contextText string) string {
	return fmt.Sprintf(PERFORMANCE_EVALUATION_PROMPT, employeeID, contextText)
}

// Generate asks the model for a report and returns its text unchanged.
// The requested structure is not checked.
func (g *ReportGenerator) Generate(ctx context.Context, employeeID, contextText string) (string, error) {
	text, err := g.client.Complete(ctx, BuildPrompt(employeeID, contextText))
	if err != nil {
		return "", fmt.Errorf("%w: %s/%s: %v", ErrGenerationFailure, g.client.Provider(), g.client.Model(), err)
	}
	return text, nil
}
