// Package orchestrator composes routing decisions into concrete execution.
//
// The state machine is small: ROUTE advances to exactly one capability
// stage (with a documented GENERAL fallback for unknown names), every
// capability stage advances to SYNTHESIZE, and SYNTHESIZE is terminal. No
// path ends without reaching synthesis, so the caller always has some
// response to render.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/astralwake/jarviq/pkg/capability"
	"github.com/astralwake/jarviq/pkg/router"
	"github.com/astralwake/jarviq/pkg/splitter"
	"github.com/astralwake/jarviq/pkg/trace"
)

// Stage names a node in the orchestration graph.
type Stage string

const (
	// StageRoute is the initial state.
	StageRoute Stage = "ROUTE"
	// StageSynthesize is the terminal state feeding response generation.
	StageSynthesize Stage = "SYNTHESIZE"
)

// Request carries one user interaction: text plus optional media payloads.
type Request struct {
	Input  string
	Images []string
	Audio  string
}

// TaskResult captures one sub-task's path through the machine.
type TaskResult struct {
	Input        string
	Capability   string
	Output       string
	VisionOutput string
	Err          string
	Duration     time.Duration
}

// Result is the merged outcome of a run, ready for response synthesis.
type Result struct {
	RunID    string
	Tasks    []TaskResult
	Response string
}

// Machine wires the splitter, router, and capability registry together.
type Machine struct {
	router   *router.Router
	registry *capability.Registry
	splitter *splitter.Splitter
	traceDir string
	log      zerolog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the machine's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Machine) {
		m.log = log
	}
}

// WithTraceDir enables run-record persistence under dir.
func WithTraceDir(dir string) Option {
	return func(m *Machine) {
		m.traceDir = dir
	}
}

// New creates a machine over the given router, registry, and splitter.
func New(r *router.Router, registry *capability.Registry, s *splitter.Splitter, opts ...Option) *Machine {
	m := &Machine{
		router:   r,
		registry: registry,
		splitter: s,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run splits the request into sub-tasks and drives each through the state
// machine in order. Per-task failures never abort sibling tasks, and no
// error escapes: failed stages contribute error markers to the merged
// result instead.
func (m *Machine) Run(ctx context.Context, req Request) *Result {
	runID := uuid.NewString()
	tasks := m.splitter.Split(ctx, req.Input)

	writer := m.newTraceWriter(runID, req.Input, len(tasks))

	result := &Result{RunID: runID}
	for i, task := range tasks {
		taskResult := m.runTask(ctx, task, req)
		result.Tasks = append(result.Tasks, taskResult)

		if writer != nil {
			record := trace.TaskRecord{
				Index:          i,
				InputHash:      trace.Hash(task),
				Capability:     taskResult.Capability,
				Output:         truncateOutput(taskResult.Output),
				VisionOutput:   truncateOutput(taskResult.VisionOutput),
				Error:          taskResult.Err,
				DurationMillis: taskResult.Duration.Milliseconds(),
			}
			if err := writer.WriteTask(record); err != nil {
				m.log.Warn().Err(err).Msg("failed to write task trace")
			}
		}
	}

	result.Response = synthesize(result.Tasks)
	return result
}

// runTask routes one sub-task and executes the selected capability,
// fanning out to VISION when the request carries media and the routed
// capability is not VISION itself.
func (m *Machine) runTask(ctx context.Context, task string, req Request) TaskResult {
	start := time.Now()

	decision, err := m.router.Route(ctx, task)
	if err != nil {
		var unknown *router.UnknownCapabilityError
		if errors.As(err, &unknown) {
			// The router refuses to guess; degrading one bad
			// classification to a best-effort general answer happens
			// here and only here.
			m.log.Warn().Str("capability", unknown.Capability).Msg("unknown capability, falling back to GENERAL")
			decision = router.Decision{Capability: capability.General, Input: task}
		} else {
			return TaskResult{
				Input:    task,
				Err:      fmt.Sprintf("routing failed: %v", err),
				Duration: time.Since(start),
			}
		}
	}

	result := TaskResult{Input: task, Capability: decision.Capability}

	hasMedia := len(req.Images) > 0 || req.Audio != ""
	if hasMedia && decision.Capability != capability.Vision {
		m.fanOut(ctx, decision, task, req, &result)
	} else {
		output, err := m.execute(ctx, decision.Capability, decision.Input, mediaExtra(req))
		if err != nil {
			result.Err = errMarker(decision.Capability, err)
		} else {
			result.Output = output
		}
	}

	result.Duration = time.Since(start)
	return result
}

// fanOut runs the routed capability and VISION concurrently and joins both
// results. A failed branch contributes an error marker; the surviving
// branch's output is still delivered.
func (m *Machine) fanOut(ctx context.Context, decision router.Decision, task string, req Request, result *TaskResult) {
	var wg sync.WaitGroup
	var textOutput, visionOutput string
	var textErr, visionErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		textOutput, textErr = m.execute(ctx, decision.Capability, decision.Input, nil)
	}()
	go func() {
		defer wg.Done()
		visionOutput, visionErr = m.execute(ctx, capability.Vision, task, mediaExtra(req))
	}()
	wg.Wait()

	if textErr != nil {
		result.Err = errMarker(decision.Capability, textErr)
	} else {
		result.Output = textOutput
	}
	if visionErr != nil {
		marker := errMarker(capability.Vision, visionErr)
		if result.Err != "" {
			result.Err += "; " + marker
		} else {
			result.Err = marker
		}
	} else {
		result.VisionOutput = visionOutput
	}
}

func (m *Machine) execute(ctx context.Context, name, input string, extra map[string]string) (string, error) {
	handler, ok := m.registry.Get(name)
	if !ok {
		return "", fmt.Errorf("no handler registered for %s", name)
	}
	return handler.Execute(ctx, input, extra)
}

func (m *Machine) newTraceWriter(runID, input string, taskCount int) *trace.Writer {
	if m.traceDir == "" {
		return nil
	}
	writer, err := trace.NewWriter(m.traceDir, runID)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to create trace writer")
		return nil
	}
	record := trace.RunRecord{
		ID:        runID,
		Timestamp: time.Now().UTC(),
		InputHash: trace.Hash(input),
		TaskCount: taskCount,
	}
	if err := writer.WriteRun(record); err != nil {
		m.log.Warn().Err(err).Msg("failed to write run trace")
	}
	return writer
}

// synthesize merges task outputs into the text handed to the response
// generator. Error markers ride along so the generator can apologize
// instead of dead-ending.
func synthesize(tasks []TaskResult) string {
	var parts []string
	for _, task := range tasks {
		if task.Output != "" {
			parts = append(parts, task.Output)
		}
		if task.VisionOutput != "" {
			parts = append(parts, task.VisionOutput)
		}
		if task.Err != "" {
			parts = append(parts, task.Err)
		}
	}
	return strings.Join(parts, "\n")
}

func mediaExtra(req Request) map[string]string {
	if len(req.Images) == 0 && req.Audio == "" {
		return nil
	}
	extra := make(map[string]string, 2)
	if len(req.Images) > 0 {
		extra["images"] = strings.Join(req.Images, ",")
	}
	if req.Audio != "" {
		extra["audio"] = req.Audio
	}
	return extra
}

func errMarker(capabilityName string, err error) string {
	return fmt.Sprintf("[%s unavailable: %v]", capabilityName, err)
}

func truncateOutput(s string) string {
	const limit = 4096
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
