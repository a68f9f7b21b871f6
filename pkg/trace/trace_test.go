package trace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriterWritesRunAndTasks(t *testing.T) {
	base := t.TempDir()

	w, err := NewWriter(base, "run-1")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	run := RunRecord{
		ID:        "run-1",
		Timestamp: time.Now().UTC(),
		InputHash: Hash("hello"),
		TaskCount: 1,
	}
	if err := w.WriteRun(run); err != nil {
		t.Fatalf("write run: %v", err)
	}

	task := TaskRecord{
		Index:          0,
		InputHash:      Hash("hello"),
		Capability:     "GENERAL",
		Output:         "hi",
		DurationMillis: 12,
	}
	if err := w.WriteTask(task); err != nil {
		t.Fatalf("write task: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(w.RunDir(), "run.json"))
	if err != nil {
		t.Fatalf("read run record: %v", err)
	}
	var gotRun RunRecord
	if err := json.Unmarshal(data, &gotRun); err != nil {
		t.Fatalf("unmarshal run record: %v", err)
	}
	if gotRun.ID != "run-1" || gotRun.TaskCount != 1 {
		t.Fatalf("unexpected run record: %+v", gotRun)
	}

	data, err = os.ReadFile(filepath.Join(w.RunDir(), "tasks", "000.json"))
	if err != nil {
		t.Fatalf("read task record: %v", err)
	}
	var gotTask TaskRecord
	if err := json.Unmarshal(data, &gotTask); err != nil {
		t.Fatalf("unmarshal task record: %v", err)
	}
	if gotTask.Capability != "GENERAL" || gotTask.Output != "hi" {
		t.Fatalf("unexpected task record: %+v", gotTask)
	}
}

func TestWriterValidation(t *testing.T) {
	if _, err := NewWriter("", "run"); err == nil {
		t.Fatal("expected error for empty base dir")
	}
	if _, err := NewWriter(t.TempDir(), ""); err == nil {
		t.Fatal("expected error for empty run ID")
	}
}

func TestHashStable(t *testing.T) {
	if Hash("a") != Hash("a") {
		t.Fatal("hash must be deterministic")
	}
	if Hash("a") == Hash("b") {
		t.Fatal("hash must differ for different inputs")
	}
	if len(Hash("")) != 64 {
		t.Fatalf("unexpected hash length %d", len(Hash("")))
	}
}
