package router

import "time"

// Decision is the router's output: which capability handles the request
// and the tailored input handed to it. Immutable once constructed.
type Decision struct {
	Capability string `json:"selected_agent"`
	Input      string `json:"inputs"`
}

// HistoryEntry records one completed routing request, retained only for
// exact-duplicate detection and metrics.
type HistoryEntry struct {
	Timestamp   time.Time
	CleanedText string
	Decision    Decision
	Latency     time.Duration
}
