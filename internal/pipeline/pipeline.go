package pipeline

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/taskforge/orchestrator/internal/session"
)

// SessionAcquirer is the subset of session.Manager the pipeline needs —
// narrow so tests can supply a fake without standing up a real Manager.
type SessionAcquirer interface {
	Acquire(id string) (*session.Handle, error)
}

// Pipeline wires task submissions to Agents and publishes the outcome.
// Dispatch is synchronous: it blocks for the duration of one Run, mirroring
// the "pipeline receives a submitted task, obtains an Agent, calls Run"
// data flow in spec.md §2 — there's no internal queueing to get lost in.
type Pipeline struct {
	mu       sync.RWMutex
	handlers map[string][]Handler

	sessions SessionAcquirer
	audit    *AuditSink
}

// New constructs a Pipeline. audit may be nil to skip audit recording.
func New(sessions SessionAcquirer, audit *AuditSink) *Pipeline {
	return &Pipeline{
		handlers: make(map[string][]Handler),
		sessions: sessions,
		audit:    audit,
	}
}

// Subscribe registers h for topic. There is no unsubscribe — subscribers
// live for the process lifetime, matching this pipeline's fixed topic set.
func (p *Pipeline) Subscribe(topic string, h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[topic] = append(p.handlers[topic], h)
}

// Publish dispatches e to every handler subscribed to e.Topic, synchronously
// and in subscription order.
func (p *Pipeline) Publish(e Event) {
	p.mu.RLock()
	hs := append([]Handler(nil), p.handlers[e.Topic]...)
	p.mu.RUnlock()

	for _, h := range hs {
		h(e)
	}
}

// Dispatch runs sub.Task against sub.SessionID's Agent (minting both
// TaskID and SessionID when absent), publishes task.execute immediately,
// then task.completed or task.failed once Run returns, and records the
// outcome in the audit sink.
func (p *Pipeline) Dispatch(sub Submission) session.TaskResult {
	if sub.TaskID == "" {
		sub.TaskID = uuid.NewString()
	}
	if sub.SessionID == "" {
		sub.SessionID = uuid.NewString()
	}

	p.Publish(Event{Topic: TopicTaskExecute, Payload: sub})

	handle, err := p.sessions.Acquire(sub.SessionID)
	if err != nil {
		result := session.TaskResult{Success: false, Error: fmt.Sprintf("acquiring session: %v", err), SessionID: sub.SessionID}
		p.complete(sub, result)
		return result
	}

	result, _ := handle.Run(sub.Task)
	p.complete(sub, result)
	return result
}

func (p *Pipeline) complete(sub Submission, result session.TaskResult) {
	completion := Completion{TaskID: sub.TaskID, SessionID: sub.SessionID, Task: sub.Task, Result: result}

	if p.audit != nil {
		p.audit.Record(completion)
	}

	topic := TopicTaskCompleted
	if !result.Success {
		topic = TopicTaskFailed
	}
	p.Publish(Event{Topic: topic, Payload: completion})
}

// LogHandler returns a convenience Handler that logs every event it receives —
// useful as a default subscriber wired in cmd/orchestratord.
func LogHandler(component string) Handler {
	return func(e Event) {
		log.Printf("[Pipeline] %s: %s %+v", component, e.Topic, e.Payload)
	}
}
