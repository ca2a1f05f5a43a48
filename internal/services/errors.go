package services

import "errors"

// Pipeline failure kinds. Callers classify with errors.Is.
var (
	ErrInputFailure      = errors.New("invalid evaluation request")
	ErrIndexingFailure   = errors.New("indexing failed")
	ErrRetrievalFailure  = errors.New("retrieval failed")
	ErrGenerationFailure = errors.New("report generation failed")
)

// FailureKind returns a short label for a pipeline error, or "" for nil.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInputFailure):
		return "input_failure"
	case errors.Is(err, ErrIndexingFailure):
		return "indexing_failure"
	case errors.Is(err, ErrRetrievalFailure):
		return "retrieval_failure"
	case errors.Is(err, ErrGenerationFailure):
		return "generation_failure"
	default:
		return "internal_failure"
	}
}
