package session

// StateSummary is the compact snapshot of a State embedded in every
// TaskResult — cheap to copy, never a live reference into the State.
type StateSummary struct {
	ConversationLength int
	ExecutionCount     int
	VariablesCount     int
}

// Metadata carries the per-Run accounting a caller may want for billing or
// diagnostics.
type Metadata struct {
	LLMCalls    int
	SkillCalls  int
	TotalTokens int
}

// TaskResult is what an Agent's Run returns. Exactly one of Output or
// Error is meaningfully populated, matched by Success.
type TaskResult struct {
	Success       bool
	Output        string
	Error         string
	ElapsedMS     int64
	SessionID     string
	State         StateSummary
	Metadata      Metadata
}

// Agent is the capability a session.Manager needs from whatever owns a
// State: run a task against it, and release any resources it holds when
// the session is evicted or released. Concrete implementations live in
// internal/agent; this package only depends on the shape, never the type,
// to avoid a session<->agent import cycle (agent.Agent holds a *State).
type Agent interface {
	Run(task string) (TaskResult, error)
	Cleanup() error
}
