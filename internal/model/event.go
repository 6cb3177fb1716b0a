package model

import "time"

// CanonicalEvent is a record that matched a pattern, with its timestamp normalized to UTC.
type CanonicalEvent struct {
	Name           string
	Instant        time.Time // always UTC
	MatchedPattern string
	GroupKey       string

	Message   string   // ANSI-stripped message
	Timestamp string   // original timestamp text
	Columns   []string // original columns, carried for pass-through output
}

// TimedRow is a CanonicalEvent annotated with elapsed milliseconds.
type TimedRow struct {
	CanonicalEvent
	AccumMS int64 // since the reference instant of the row's scope
	DeltaMS int64 // since the previous row in the same scope
}
