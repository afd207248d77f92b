// Package llm provides a provider-agnostic chat-completion abstraction
// used by the PTC Generator (spec.md §4.4). Concrete providers live in
// sub-packages (see llm/openai).
package llm

import "context"

// Role constants for Message.Role.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options carries per-call tuning knobs. Zero values mean "use the
// provider's default" (spec.md §4.4: maxTokens default 2000, temperature
// default 0.7).
type Options struct {
	MaxTokens   int
	Temperature float32
	Model       string // optional override of the provider's configured model
}

// DefaultOptions returns the spec.md §4.4 defaults.
func DefaultOptions() Options {
	return Options{MaxTokens: 2000, Temperature: 0.7}
}

// Usage mirrors the provider's token accounting. Zero values are valid —
// a provider that omits usage reporting returns all zeros, not an error.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the result of a completion call.
type Response struct {
	Content string
	Model   string // the actual model identifier the provider used
	Usage   Usage
}

// ChatCompleter is the provider-agnostic interface every LLM backend
// implements. messages is ordered; roles are one of RoleUser, RoleAssistant,
// RoleSystem. A response with no text content is a ProviderError, not an
// empty success (spec.md §4.4).
type ChatCompleter interface {
	Complete(ctx context.Context, messages []Message, opts Options) (Response, error)

	// Name returns a human-readable provider/model identifier for logging.
	Name() string
}
