// Package trace persists per-run routing records for diagnosis.
package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunRecord captures run-level metadata.
type RunRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	InputHash string    `json:"input_hash"`
	TaskCount int       `json:"task_count"`
}

// TaskRecord captures one sub-task's journey through the state machine.
type TaskRecord struct {
	Index          int    `json:"index"`
	InputHash      string `json:"input_hash"`
	Capability     string `json:"capability,omitempty"`
	Output         string `json:"output,omitempty"`
	VisionOutput   string `json:"vision_output,omitempty"`
	Error          string `json:"error,omitempty"`
	DurationMillis int64  `json:"duration_ms"`
}

// Writer writes run records to disk under baseDir/runID.
type Writer struct {
	baseDir string
	runDir  string
}

// NewWriter creates a writer rooted at baseDir/runID.
func NewWriter(baseDir, runID string) (*Writer, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(filepath.Join(runDir, "tasks"), 0755); err != nil {
		return nil, err
	}
	return &Writer{baseDir: baseDir, runDir: runDir}, nil
}

// RunDir returns the run directory path.
func (w *Writer) RunDir() string {
	return w.runDir
}

// WriteRun writes run metadata to run.json.
func (w *Writer) WriteRun(record RunRecord) error {
	return writeJSON(filepath.Join(w.runDir, "run.json"), record)
}

// WriteTask writes a task record to tasks/<index>.json.
func (w *Writer) WriteTask(record TaskRecord) error {
	path := filepath.Join(w.runDir, "tasks", fmt.Sprintf("%03d.json", record.Index))
	return writeJSON(path, record)
}

// Hash returns the hex SHA-256 of text, used to reference inputs without
// storing them verbatim.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
