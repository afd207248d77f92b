// Package pipeline is the Event Pipeline: it accepts a submitted task,
// obtains an Agent from the Session Manager, runs it, and publishes a
// completion or failure event on one of three fixed topics.
package pipeline

import "github.com/taskforge/orchestrator/internal/session"

// The three topics this pipeline ever publishes or accepts. There is no
// dynamic topic registration — spec.md fully enumerates the set.
const (
	TopicTaskExecute   = "task.execute"
	TopicTaskCompleted = "task.completed"
	TopicTaskFailed    = "task.failed"
)

// Submission is the task submission event's payload.
type Submission struct {
	TaskID    string
	Task      string
	SessionID string
	Continue  bool
}

// Completion is the task completion/failure event's payload.
type Completion struct {
	TaskID    string
	SessionID string
	Task      string
	Result    session.TaskResult
}

// Event is published on the bus with the topic it belongs to.
type Event struct {
	Topic   string
	Payload any
}

// Handler receives every Event published on a topic it subscribed to.
type Handler func(Event)
