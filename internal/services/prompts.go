package services

// LLM prompt constants

const (
	// PERFORMANCE_EVALUATION_PROMPT is filled with the employee id and the retrieved log context
	PERFORMANCE_EVALUATION_PROMPT = `
You are an HR performance evaluator.
Given the following employee logs, evaluate the performance of the employee %s.

Criteria:
1. Productivity – tasks completed
2. Efficiency – balance of activities
3. Quality – fewer bugs/errors

Return a structured report with:
- Employee ID
- Summary
- Strengths
- Weaknesses
- Performance Rating (Excellent, Good, Needs Improvement)
- Suggestions
Kindly maintain the structure and formatting as specified.

Logs:
%s
`

	// RETRIEVAL_QUERY_TEMPLATE is the semantic query issued against an employee namespace
	RETRIEVAL_QUERY_TEMPLATE = "Give all logs for employee %s"
)
