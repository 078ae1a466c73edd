package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestChatRecorder_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "logs", "chat.jsonl")
	rec, err := NewChatRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}

	ev1 := ChatEvent{Timestamp: time.Unix(1, 0).UTC(), Prompt: "is tap water safe?", Reply: "<p>usually</p>"}
	ev2 := ChatEvent{Timestamp: time.Unix(2, 0).UTC(), Prompt: "how to boil", Reply: "<ul><li>a</li></ul>", Model: "m"}
	if err := rec.AppendEvent(ev1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := rec.AppendEvent(ev2); err != nil {
		t.Fatalf("append2: %v", err)
	}

	// garbage lines are skipped
	f, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, _ = f.WriteString("not json\n\n")
	_ = f.Close()

	events, err := rec.LoadEvents()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2, got %d", len(events))
	}
	if events[0].Prompt != ev1.Prompt || events[1].Model != "m" {
		t.Fatalf("order mismatch: %+v", events)
	}
}
