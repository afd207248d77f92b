package pipeline

import (
	"testing"

	"github.com/taskforge/orchestrator/internal/pipeline/historystore"
	"github.com/taskforge/orchestrator/internal/session"
)

func TestAuditSink_RecordThenHistory(t *testing.T) {
	sink := NewAuditSink(historystore.NewMemory())
	sink.Record(Completion{TaskID: "t1", SessionID: "s1", Result: session.TaskResult{Success: true}})
	hist := sink.History()
	if len(hist) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(hist))
	}
	if hist[0].TaskID != "t1" {
		t.Errorf("unexpected entry: %+v", hist[0])
	}
}

func TestAuditSink_DuplicateTaskIDIsIgnored(t *testing.T) {
	sink := NewAuditSink(historystore.NewMemory())
	c := Completion{TaskID: "dup", Result: session.TaskResult{Success: true}}
	sink.Record(c)
	sink.Record(c)
	if len(sink.History()) != 1 {
		t.Fatalf("expected dedup to keep a single entry, got %d", len(sink.History()))
	}
}

func TestAuditSink_CapsAtMaxEntries(t *testing.T) {
	sink := NewAuditSink(historystore.NewMemory())
	for i := 0; i < auditCap+10; i++ {
		sink.Record(Completion{TaskID: string(rune('a' + i%26)) + string(rune(i))})
	}
	hist := sink.History()
	if len(hist) != auditCap {
		t.Fatalf("expected history capped at %d, got %d", auditCap, len(hist))
	}
}

func TestAuditSink_EmptyTaskIDNeverDeduped(t *testing.T) {
	sink := NewAuditSink(historystore.NewMemory())
	sink.Record(Completion{})
	sink.Record(Completion{})
	if len(sink.History()) != 2 {
		t.Fatalf("expected both untracked entries kept, got %d", len(sink.History()))
	}
}
