package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astralwake/jarviq/pkg/capability"
	"github.com/astralwake/jarviq/pkg/gateway"
	"github.com/astralwake/jarviq/pkg/router"
	"github.com/astralwake/jarviq/pkg/splitter"
)

const splitKey = "Split the user's request"

// recordingHandler captures its last invocation.
type recordingHandler struct {
	mu     sync.Mutex
	output string
	err    error
	input  string
	extra  map[string]string
	calls  int
}

func (h *recordingHandler) Execute(_ context.Context, input string, extra map[string]string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	h.input = input
	h.extra = extra
	return h.output, h.err
}

// promptGateway delegates to a function, for tests that need to vary the
// response by prompt content.
type promptGateway struct {
	fn func(prompt string) (string, error)
}

func (g *promptGateway) Classify(_ context.Context, prompt string) (string, error) {
	return g.fn(prompt)
}

func (g *promptGateway) Name() string { return "prompt" }

// failingGateway always errors, non-transiently.
type failingGateway struct{}

func (failingGateway) Classify(_ context.Context, _ string) (string, error) {
	return "", errors.New("model unreachable")
}

func (failingGateway) Name() string { return "failing" }

func routerConfig() router.Config {
	return router.Config{ClassifyAttempts: 1, ClassifyRetryDelay: -1}
}

func newMachine(t *testing.T, gw gateway.Gateway, handlers map[string]*recordingHandler, opts ...Option) *Machine {
	t.Helper()

	r, err := router.New(gw, capability.Defaults(), routerConfig())
	require.NoError(t, err)

	registry := capability.NewRegistry()
	for name, handler := range handlers {
		require.NoError(t, registry.Register(name, handler))
	}

	return New(r, registry, splitter.New(gw), opts...)
}

func TestRunRoutesToSelectedCapability(t *testing.T) {
	gw := gateway.NewMockGatewayWithResponses(map[string]string{
		splitKey: `{"tasks": []}`,
	}, `{"selected_agent": "PERSONAL", "inputs": "set a reminder for 9am"}`)

	personal := &recordingHandler{output: "reminder set"}
	m := newMachine(t, gw, map[string]*recordingHandler{capability.Personal: personal})

	result := m.Run(context.Background(), Request{Input: "remind me at 9am"})

	require.Len(t, result.Tasks, 1)
	assert.Equal(t, capability.Personal, result.Tasks[0].Capability)
	assert.Equal(t, "reminder set", result.Tasks[0].Output)
	assert.Equal(t, "set a reminder for 9am", personal.input)
	assert.Contains(t, result.Response, "reminder set")
	assert.NotEmpty(t, result.RunID)
}

func TestRunUnknownCapabilityFallsBackToGeneral(t *testing.T) {
	gw := gateway.NewMockGatewayWithResponses(map[string]string{
		splitKey: `{"tasks": []}`,
	}, `{"selected_agent": "NONEXISTENT", "inputs": "x"}`)

	general := &recordingHandler{output: "best effort answer"}
	m := newMachine(t, gw, map[string]*recordingHandler{capability.General: general})

	result := m.Run(context.Background(), Request{Input: "do something odd"})

	require.Len(t, result.Tasks, 1)
	assert.Equal(t, capability.General, result.Tasks[0].Capability)
	assert.Equal(t, "best effort answer", result.Tasks[0].Output)
	assert.Equal(t, "do something odd", general.input)
	assert.Empty(t, result.Tasks[0].Err)
}

func TestRunFanOutPartialFailure(t *testing.T) {
	gw := gateway.NewMockGatewayWithResponses(map[string]string{
		splitKey: `{"tasks": []}`,
	}, `{"selected_agent": "GENERAL", "inputs": "describe my day"}`)

	general := &recordingHandler{output: "here is your day"}
	vision := &recordingHandler{err: errors.New("camera offline")}
	m := newMachine(t, gw, map[string]*recordingHandler{
		capability.General: general,
		capability.Vision:  vision,
	})

	result := m.Run(context.Background(), Request{
		Input:  "describe my day",
		Images: []string{"frame.png"},
	})

	require.Len(t, result.Tasks, 1)
	task := result.Tasks[0]
	assert.Equal(t, "here is your day", task.Output)
	assert.Empty(t, task.VisionOutput)
	assert.Contains(t, task.Err, "VISION unavailable")
	assert.Contains(t, result.Response, "here is your day")
	assert.Contains(t, result.Response, "VISION unavailable")
}

func TestRunFanOutBothBranches(t *testing.T) {
	gw := gateway.NewMockGatewayWithResponses(map[string]string{
		splitKey: `{"tasks": []}`,
	}, `{"selected_agent": "SENSOR", "inputs": "check the thermostat"}`)

	sensor := &recordingHandler{output: "21C"}
	vision := &recordingHandler{output: "a sunny window"}
	m := newMachine(t, gw, map[string]*recordingHandler{
		capability.Sensor: sensor,
		capability.Vision: vision,
	})

	result := m.Run(context.Background(), Request{
		Input:  "what's the temperature",
		Images: []string{"window.jpg"},
		Audio:  "clip.wav",
	})

	require.Len(t, result.Tasks, 1)
	task := result.Tasks[0]
	assert.Equal(t, "21C", task.Output)
	assert.Equal(t, "a sunny window", task.VisionOutput)
	assert.Empty(t, task.Err)
	assert.Equal(t, 1, sensor.calls)
	assert.Equal(t, 1, vision.calls)
	assert.Equal(t, "window.jpg", vision.extra["images"])
	assert.Equal(t, "clip.wav", vision.extra["audio"])
}

func TestRunVisionRoutedRunsOnce(t *testing.T) {
	gw := gateway.NewMockGatewayWithResponses(map[string]string{
		splitKey: `{"tasks": []}`,
	}, `{"selected_agent": "VISION", "inputs": "describe this image"}`)

	vision := &recordingHandler{output: "a cat"}
	m := newMachine(t, gw, map[string]*recordingHandler{capability.Vision: vision})

	result := m.Run(context.Background(), Request{
		Input:  "what is in this picture",
		Images: []string{"cat.png"},
	})

	require.Len(t, result.Tasks, 1)
	assert.Equal(t, "a cat", result.Tasks[0].Output)
	assert.Empty(t, result.Tasks[0].VisionOutput)
	assert.Equal(t, 1, vision.calls)
	assert.Equal(t, "cat.png", vision.extra["images"])
}

func TestRunRoutingFailureStillSynthesizes(t *testing.T) {
	general := &recordingHandler{output: "unused"}
	m := newMachine(t, failingGateway{}, map[string]*recordingHandler{capability.General: general})

	result := m.Run(context.Background(), Request{Input: "anything"})

	require.Len(t, result.Tasks, 1)
	assert.Contains(t, result.Tasks[0].Err, "routing failed")
	assert.Contains(t, result.Response, "routing failed")
	assert.Equal(t, 0, general.calls)
}

func TestRunSiblingTasksIsolated(t *testing.T) {
	gw := &promptGateway{fn: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, splitKey):
			return `{"tasks": ["install docker", "tell me a joke"]}`, nil
		case strings.HasSuffix(prompt, "install docker"):
			return `{"selected_agent": "SOFTWARE", "inputs": "install docker"}`, nil
		default:
			return `{"selected_agent": "GENERAL", "inputs": "tell me a joke"}`, nil
		}
	}}

	software := &recordingHandler{err: errors.New("apt is locked")}
	general := &recordingHandler{output: "a funny joke"}
	m := newMachine(t, gw, map[string]*recordingHandler{
		capability.Software: software,
		capability.General:  general,
	})

	result := m.Run(context.Background(), Request{Input: "install docker and tell me a joke"})

	require.Len(t, result.Tasks, 2)
	assert.Contains(t, result.Tasks[0].Err, "SOFTWARE unavailable")
	assert.Equal(t, "a funny joke", result.Tasks[1].Output)
	assert.Contains(t, result.Response, "a funny joke")
}

func TestRunMissingHandlerProducesMarker(t *testing.T) {
	gw := gateway.NewMockGatewayWithResponses(map[string]string{
		splitKey: `{"tasks": []}`,
	}, `{"selected_agent": "BROWSER", "inputs": "open the page"}`)

	m := newMachine(t, gw, nil)

	result := m.Run(context.Background(), Request{Input: "open hacker news"})

	require.Len(t, result.Tasks, 1)
	assert.Contains(t, result.Tasks[0].Err, "BROWSER unavailable")
}

func TestRunWritesTraceRecords(t *testing.T) {
	gw := gateway.NewMockGatewayWithResponses(map[string]string{
		splitKey: `{"tasks": []}`,
	}, `{"selected_agent": "GENERAL", "inputs": "hi"}`)

	dir := t.TempDir()
	general := &recordingHandler{output: "hello"}
	m := newMachine(t, gw, map[string]*recordingHandler{capability.General: general}, WithTraceDir(dir))

	result := m.Run(context.Background(), Request{Input: "hi there"})

	runDir := filepath.Join(dir, result.RunID)
	if _, err := os.Stat(filepath.Join(runDir, "run.json")); err != nil {
		t.Fatalf("run record missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(runDir, "tasks", "000.json")); err != nil {
		t.Fatalf("task record missing: %v", err)
	}
}
