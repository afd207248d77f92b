// Package orcherr defines the error kinds shared across the orchestrator
// core (spec.md §7). Each kind is a sentinel wrapped with %w so callers can
// branch with errors.Is while the message still carries per-call context.
package orcherr

import "errors"

var (
	// ErrValidation: task missing/empty, or generated code empty after normalization.
	ErrValidation = errors.New("validation error")

	// ErrParse: the PTC plan or code could not be extracted from LLM output.
	ErrParse = errors.New("parse error")

	// ErrSkillNotFound: the plan names a skill absent from the registry.
	ErrSkillNotFound = errors.New("skill not found")

	// ErrProvider: the LLM call failed at the transport or protocol level.
	ErrProvider = errors.New("provider error")

	// ErrExecution: the sandbox process exited with a non-zero status.
	ErrExecution = errors.New("execution error")

	// ErrTimeout: the sandbox exceeded its wall-clock budget.
	ErrTimeout = errors.New("timeout")

	// ErrResourceExhausted: a capacity-bounded component is at its limit.
	ErrResourceExhausted = errors.New("resource exhausted")
)

// Kind returns a short machine-readable label for one of the sentinels
// above, for inclusion in TaskResult.error metadata. Returns "unknown" for
// any other error.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrSkillNotFound):
		return "skill_not_found"
	case errors.Is(err, ErrProvider):
		return "provider"
	case errors.Is(err, ErrExecution):
		return "execution"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrResourceExhausted):
		return "resource_exhausted"
	default:
		return "unknown"
	}
}
