package capability

import "context"

// Built-in capability names.
const (
	Vision        = "VISION"
	General       = "GENERAL"
	Memory        = "MEMORY"
	Personal      = "PERSONAL"
	Software      = "SOFTWARE"
	Browser       = "BROWSER"
	Sensor        = "SENSOR"
	Consciousness = "CONSCIOUSNESS"
)

// Descriptor describes one selectable capability. Descriptors are built
// once at startup and never mutated; the router shares them read-only with
// prompt construction.
type Descriptor struct {
	Name        string
	Description string
	Examples    []string
	Keywords    []string
}

// Handler executes a routed request for one capability.
type Handler interface {
	Execute(ctx context.Context, input string, extra map[string]string) (string, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, input string, extra map[string]string) (string, error)

// Execute calls the wrapped function.
func (f HandlerFunc) Execute(ctx context.Context, input string, extra map[string]string) (string, error) {
	return f(ctx, input, extra)
}

// Defaults returns the built-in descriptor set.
func Defaults() []Descriptor {
	return []Descriptor{
		{
			Name:        Vision,
			Description: "Analyzes images, screenshots, and camera frames supplied with the request.",
			Examples:    []string{"what is in this picture", "describe the screenshot", "read the text on this photo"},
			Keywords:    []string{"image", "picture", "photo", "screenshot", "see", "look"},
		},
		{
			Name:        General,
			Description: "Answers general-knowledge questions and anything no specialist covers.",
			Examples:    []string{"who wrote Dune", "explain quantum entanglement", "tell me a joke"},
			Keywords:    []string{"what", "who", "explain", "tell"},
		},
		{
			Name:        Memory,
			Description: "Stores and recalls facts, notes, and past conversations.",
			Examples:    []string{"remember that my wifi password is hunter2", "what did I tell you about my sister"},
			Keywords:    []string{"remember", "recall", "forget", "note"},
		},
		{
			Name:        Personal,
			Description: "Manages reminders, calendar events, email, and personal tasks.",
			Examples:    []string{"set a reminder for 9am", "add milk to my shopping list", "check my inbox"},
			Keywords:    []string{"reminder", "calendar", "email", "task", "schedule"},
		},
		{
			Name:        Software,
			Description: "Installs, updates, and manages software on the host machine.",
			Examples:    []string{"install docker", "update my packages", "is nginx running"},
			Keywords:    []string{"install", "update", "uninstall", "package", "service"},
		},
		{
			Name:        Browser,
			Description: "Drives a web browser: opens pages, fills forms, extracts content.",
			Examples:    []string{"open hacker news", "search for flights to Lisbon", "download that PDF"},
			Keywords:    []string{"open", "browse", "search", "website", "download"},
		},
		{
			Name:        Sensor,
			Description: "Queries home sensors and smart devices: temperature, lights, locks.",
			Examples:    []string{"what is the temperature in the living room", "turn off the kitchen lights"},
			Keywords:    []string{"temperature", "humidity", "light", "lock", "sensor"},
		},
		{
			Name:        Consciousness,
			Description: "Reports the assistant's own state: uptime, mood, running context.",
			Examples:    []string{"how are you feeling", "what are you working on right now"},
			Keywords:    []string{"feeling", "state", "status", "yourself"},
		},
	}
}
