package marktime

import "time"

// Event is one input log record.
type Event struct {
	Name      string // Optional display name, e.g. the emitting service
	Timestamp string // Numeric UTC or ISO-8601 with offset
	Group     string // Grouping key for the grouped policy
	Message   string // Free text; ANSI color codes are ignored when matching
}

// Row is an event placed on the timeline.
type Row struct {
	Name    string    `json:"name,omitempty"`
	Instant time.Time `json:"instant"`           // UTC
	Pattern string    `json:"pattern,omitempty"` // Matched pattern, empty without WithPatterns
	Group   string    `json:"group,omitempty"`
	Message string    `json:"message"`  // ANSI codes stripped
	AccumMS int64     `json:"accum_ms"` // Since the reference instant of the row's scope
	DeltaMS int64     `json:"delta_ms"` // Since the previous row of the same scope
}
