package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/marktime/internal/ansi"
	"github.com/crimson-sun/marktime/internal/engine/matcher"
	"github.com/crimson-sun/marktime/internal/engine/timing"
	"github.com/crimson-sun/marktime/internal/model"
	"github.com/crimson-sun/marktime/internal/timestamp"
)

// Engine orchestrates the match → parse → time pipeline.
type Engine struct {
	matcher *matcher.Matcher
	format  timestamp.Format
	policy  timing.Policy
	lenient bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatcher keeps only records matching m, one event per matched pattern.
// Without a matcher every record yields exactly one event.
func WithMatcher(m *matcher.Matcher) Option {
	return func(e *Engine) { e.matcher = m }
}

// WithPolicy sets the reference policy used by Annotate. Default: timing.Global.
func WithPolicy(p timing.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithLenientTimestamps makes ProcessBatch skip records whose timestamp cannot
// be parsed instead of failing.
func WithLenientTimestamps() Option {
	return func(e *Engine) { e.lenient = true }
}

// New creates an Engine that parses timestamps in the given format.
func New(format timestamp.Format, opts ...Option) *Engine {
	e := &Engine{format: format}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats summarizes a ProcessBatch call.
type Stats struct {
	Records int // records read
	Matched int // records with at least one event
	Skipped int // matched records dropped for a bad timestamp
	Events  int
}

// Process turns one record into zero or more canonical events.
func (e *Engine) Process(raw model.RawRecord) ([]model.CanonicalEvent, error) {
	patterns := []string{""}
	if e.matcher != nil {
		patterns = e.matcher.Match(raw.Message)
		if len(patterns) == 0 {
			return nil, nil
		}
	}

	instant, err := timestamp.Parse(raw.Timestamp, e.format)
	if err != nil {
		if raw.Line > 0 {
			return nil, fmt.Errorf("line %d: %w", raw.Line, err)
		}
		return nil, err
	}

	events := make([]model.CanonicalEvent, 0, len(patterns))
	for _, p := range patterns {
		events = append(events, model.CanonicalEvent{
			Name:           raw.Name,
			Instant:        instant,
			MatchedPattern: p,
			GroupKey:       raw.Group,
			Message:        ansi.Strip(raw.Message),
			Timestamp:      raw.Timestamp,
			Columns:        raw.Columns,
		})
	}
	return events, nil
}

// ProcessBatch processes records in order.
func (e *Engine) ProcessBatch(raws []model.RawRecord) ([]model.CanonicalEvent, Stats, error) {
	stats := Stats{Records: len(raws)}
	var events []model.CanonicalEvent
	for _, raw := range raws {
		evs, err := e.Process(raw)
		if err != nil {
			var pe *timestamp.ParseError
			if e.lenient && errors.As(err, &pe) {
				stats.Matched++
				stats.Skipped++
				slog.Warn("skipping record with unparseable timestamp",
					"timestamp", raw.Timestamp, "group", raw.Group, "error", err)
				continue
			}
			return nil, stats, err
		}
		if len(evs) > 0 {
			stats.Matched++
		}
		events = append(events, evs...)
	}
	stats.Events = len(events)
	return events, stats, nil
}

// Annotate computes elapsed times for events under the configured policy.
func (e *Engine) Annotate(events []model.CanonicalEvent) []model.TimedRow {
	return timing.Compute(events, e.policy)
}
