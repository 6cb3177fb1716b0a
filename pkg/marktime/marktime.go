package marktime

import (
	"fmt"

	"github.com/crimson-sun/marktime/internal/engine"
	"github.com/crimson-sun/marktime/internal/engine/matcher"
	"github.com/crimson-sun/marktime/internal/engine/timing"
	"github.com/crimson-sun/marktime/internal/model"
	"github.com/crimson-sun/marktime/internal/timestamp"
)

// Timeline matches, sorts and annotates events. Rows come back in
// chronological order; events with equal instants keep their input order.
// Events are not modified.
func Timeline(events []Event, opts ...Option) ([]Row, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	eng, err := newEngine(o)
	if err != nil {
		return nil, err
	}

	raws := make([]model.RawRecord, len(events))
	for i, e := range events {
		raws[i] = model.RawRecord{
			Name:      e.Name,
			Timestamp: e.Timestamp,
			Group:     e.Group,
			Message:   e.Message,
			Line:      i + 1,
		}
	}

	ces, _, err := eng.ProcessBatch(raws)
	if err != nil {
		return nil, fmt.Errorf("marktime: event %w", err)
	}

	timed := eng.Annotate(ces)
	rows := make([]Row, len(timed))
	for i, t := range timed {
		rows[i] = rowFromTimed(t)
	}
	return rows, nil
}

func newEngine(o options) (*engine.Engine, error) {
	policy, err := timing.ParsePolicy(string(o.policy))
	if err != nil {
		return nil, fmt.Errorf("marktime: %w", err)
	}

	engOpts := []engine.Option{engine.WithPolicy(policy)}
	if len(o.patterns) > 0 {
		mode := matcher.All
		if o.firstOnly {
			mode = matcher.First
		}
		fold := matcher.None
		if o.nfc {
			fold = matcher.NFC
		}
		m := matcher.New(matcher.NewSet(o.patterns), mode, matcher.WithNormalization(fold))
		engOpts = append(engOpts, engine.WithMatcher(m))
	}
	if o.lenient {
		engOpts = append(engOpts, engine.WithLenientTimestamps())
	}
	return engine.New(timestamp.Auto, engOpts...), nil
}

// rowFromTimed converts the internal TimedRow to the public Row type.
func rowFromTimed(t model.TimedRow) Row {
	return Row{
		Name:    t.Name,
		Instant: t.Instant,
		Pattern: t.MatchedPattern,
		Group:   t.GroupKey,
		Message: t.Message,
		AccumMS: t.AccumMS,
		DeltaMS: t.DeltaMS,
	}
}
