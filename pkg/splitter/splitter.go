// Package splitter decomposes compound utterances into atomic sub-requests.
package splitter

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/astralwake/jarviq/pkg/gateway"
	"github.com/astralwake/jarviq/pkg/router"
)

const splitPrompt = `Split the user's request into distinct atomic tasks.
Keep the original wording of each task and preserve their order.
Return ONLY JSON: {"tasks": ["...", "..."]}.

Request:
`

// Splitter asks the classifier gateway to break a possibly-compound
// utterance into ordered atomic tasks.
type Splitter struct {
	gateway gateway.Gateway
	log     zerolog.Logger
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithLogger sets the splitter's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Splitter) {
		s.log = log
	}
}

// New creates a splitter over the given gateway.
func New(gw gateway.Gateway, opts ...Option) *Splitter {
	s := &Splitter{gateway: gw, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type taskList struct {
	Tasks []string `json:"tasks"`
}

// Split returns the ordered atomic tasks within rawInput. Decomposition
// failure never loses the request: on gateway error, unparsable output, or
// an empty task list the whole input comes back as a single task.
func (s *Splitter) Split(ctx context.Context, rawInput string) []string {
	raw, err := s.gateway.Classify(ctx, splitPrompt+rawInput)
	if err != nil {
		s.log.Debug().Err(err).Msg("task split gateway error, keeping input whole")
		return []string{rawInput}
	}

	var parsed taskList
	if err := router.ExtractObject(raw, &parsed); err != nil {
		s.log.Debug().Err(err).Msg("task split output unparsable, keeping input whole")
		return []string{rawInput}
	}

	tasks := make([]string, 0, len(parsed.Tasks))
	for _, task := range parsed.Tasks {
		if trimmed := strings.TrimSpace(task); trimmed != "" {
			tasks = append(tasks, trimmed)
		}
	}
	if len(tasks) == 0 {
		return []string{rawInput}
	}
	return tasks
}
