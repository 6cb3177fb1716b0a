package output

import (
	"slices"
	"strconv"
	"time"

	"github.com/crimson-sun/marktime/internal/model"
	"github.com/crimson-sun/marktime/internal/timestamp"
)

// Row is a single annotated event to be written.
type Row = model.TimedRow

// Layout fixes the columns of an output table.
type Layout interface {
	// Header returns the header row. source is the input header for tabular
	// inputs and nil otherwise.
	Header(source []string) []string
	Record(row Row) []string
}

// SearchLayout writes pattern matches with the timestamp shown in a display zone.
type SearchLayout struct {
	Location *time.Location
}

func (SearchLayout) Header([]string) []string {
	return []string{"name", "local_timestamp", "matched_pattern", "relative_ms"}
}

func (l SearchLayout) Record(r Row) []string {
	return []string{
		r.Name,
		timestamp.Local(r.Instant, l.Location),
		r.MatchedPattern,
		strconv.FormatInt(r.AccumMS, 10),
	}
}

// LinesLayout writes text-log entries with both elapsed columns.
type LinesLayout struct{}

func (LinesLayout) Header([]string) []string {
	return []string{"timestamp", "message", "accum_ms", "delta_ms"}
}

func (LinesLayout) Record(r Row) []string {
	return []string{
		r.Timestamp,
		r.Message,
		strconv.FormatInt(r.AccumMS, 10),
		strconv.FormatInt(r.DeltaMS, 10),
	}
}

// EnrichLayout passes the input columns through and appends the elapsed columns.
type EnrichLayout struct{}

func (EnrichLayout) Header(source []string) []string {
	return append(slices.Clone(source), "accum_ms", "delta_ms")
}

func (EnrichLayout) Record(r Row) []string {
	return append(slices.Clone(r.Columns),
		strconv.FormatInt(r.AccumMS, 10),
		strconv.FormatInt(r.DeltaMS, 10),
	)
}
