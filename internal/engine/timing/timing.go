// Package timing annotates events with elapsed milliseconds relative to a reference instant.
package timing

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/crimson-sun/marktime/internal/model"
)

// Policy selects the scope of the reference instant.
type Policy int

const (
	Global  Policy = iota // one reference: the earliest event overall
	Grouped               // one reference per group key: the earliest event of the group
)

// ParsePolicy converts "global" or "grouped" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "global":
		return Global, nil
	case "grouped", "group":
		return Grouped, nil
	default:
		return Global, fmt.Errorf("timing: unknown reference policy %q", s)
	}
}

func (p Policy) String() string {
	if p == Grouped {
		return "grouped"
	}
	return "global"
}

// scope returns the key partitioning events under p.
func (p Policy) scope(e model.CanonicalEvent) string {
	if p == Grouped {
		return e.GroupKey
	}
	return ""
}

// Compute sorts events by instant and annotates each with AccumMS and DeltaMS.
// Equal instants keep their input order. events is not modified.
func Compute(events []model.CanonicalEvent, p Policy) []model.TimedRow {
	if len(events) == 0 {
		return nil
	}

	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b model.CanonicalEvent) int {
		return a.Instant.Compare(b.Instant)
	})

	// Pass 1: reference per scope. sorted is ascending, so the first
	// instant seen for a scope is its minimum.
	refs := make(map[string]time.Time)
	for _, e := range sorted {
		k := p.scope(e)
		if _, ok := refs[k]; !ok {
			refs[k] = e.Instant
		}
	}

	// Pass 2: annotate.
	prev := make(map[string]time.Time, len(refs))
	rows := make([]model.TimedRow, len(sorted))
	for i, e := range sorted {
		k := p.scope(e)
		row := model.TimedRow{
			CanonicalEvent: e,
			AccumMS:        Millis(e.Instant.Sub(refs[k])),
		}
		if last, ok := prev[k]; ok {
			row.DeltaMS = Millis(e.Instant.Sub(last))
		}
		prev[k] = e.Instant
		rows[i] = row
	}
	return rows
}

// Millis converts d to whole milliseconds, truncating toward zero.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}
