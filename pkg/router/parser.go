package router

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// objectPattern matches the first brace-delimited object in noisy model
// output. It is deliberately non-nested: an object containing another
// object will not extract correctly. This mirrors the behavior routing
// prompts are written against, and parser tests pin it down.
var objectPattern = regexp.MustCompile(`\{[^{}]*\}`)

type rawDecision struct {
	SelectedAgent *string `json:"selected_agent"`
	Inputs        *string `json:"inputs"`
}

// ExtractDecision scans raw classifier output for a JSON object and parses
// it into a Decision. It returns a *ParseError instead of panicking or
// returning a partially populated Decision: no match, invalid JSON, and
// missing required keys are all parse failures the caller may retry.
func ExtractDecision(raw string) (Decision, error) {
	var parsed rawDecision
	if err := ExtractObject(raw, &parsed); err != nil {
		return Decision{}, err
	}
	if parsed.SelectedAgent == nil || *parsed.SelectedAgent == "" {
		return Decision{}, &ParseError{Raw: raw, Err: fmt.Errorf("missing selected_agent")}
	}
	if parsed.Inputs == nil {
		return Decision{}, &ParseError{Raw: raw, Err: fmt.Errorf("missing inputs")}
	}
	return Decision{Capability: *parsed.SelectedAgent, Input: *parsed.Inputs}, nil
}

// ExtractObject finds the first brace-delimited JSON object in raw text
// and unmarshals it into v. Markdown code fences around the object are
// tolerated. Returns a *ParseError on no match or invalid JSON.
func ExtractObject(raw string, v any) error {
	candidate := strings.TrimSpace(raw)
	candidate = strings.TrimPrefix(candidate, "```json")
	candidate = strings.TrimPrefix(candidate, "```")
	candidate = strings.TrimSuffix(candidate, "```")

	match := objectPattern.FindString(candidate)
	if match == "" {
		return &ParseError{Raw: raw, Err: fmt.Errorf("no JSON object found")}
	}
	if err := json.Unmarshal([]byte(match), v); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	return nil
}
