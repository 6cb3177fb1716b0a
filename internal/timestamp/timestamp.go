// Package timestamp converts the timestamp shapes found in log dumps into UTC instants.
package timestamp

import (
	"fmt"
	"regexp"
	"time"
)

// Format selects which textual shape Parse accepts.
type Format int

const (
	Auto    Format = iota // Numeric, then ISO8601
	Numeric               // 2006-01-02 15:04:05.000, implicitly UTC
	ISO8601               // 2006-01-02T15:04:05.000-07:00
)

const (
	// numericLayout accepts any number of fractional digits, including none.
	numericLayout   = "2006-01-02 15:04:05.999999999"
	canonicalLayout = "2006-01-02 15:04:05.000"
	isoLayout       = "2006-01-02T15:04:05.999999999Z07:00"
	localLayout     = "2006-01-02T15:04:05.000-07:00"
)

// time.Parse also accepts comma fractions and single-digit fields; the shapes
// below pin the accepted text before layouts are applied.
var (
	numericShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(?:\.\d{1,9})?$`)
	isoShape     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d{1,9})?(?:Z|[-+]\d{2}:\d{2})$`)
)

func (f Format) String() string {
	switch f {
	case Numeric:
		return "numeric"
	case ISO8601:
		return "iso8601"
	default:
		return "auto"
	}
}

// ParseError reports text that matches none of the accepted shapes.
type ParseError struct {
	Text   string
	Format Format
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("timestamp: cannot parse %q as %s", e.Text, e.Format)
}

// Parse converts text into a UTC instant.
func Parse(text string, f Format) (time.Time, error) {
	switch f {
	case Numeric:
		if t, ok := parseNumeric(text); ok {
			return t, nil
		}
	case ISO8601:
		if t, ok := parseISO(text); ok {
			return t, nil
		}
	default:
		if t, ok := parseNumeric(text); ok {
			return t, nil
		}
		if t, ok := parseISO(text); ok {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{Text: text, Format: f}
}

func parseNumeric(text string) (time.Time, bool) {
	if !numericShape.MatchString(text) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(numericLayout, text, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseISO(text string) (time.Time, bool) {
	if !isoShape.MatchString(text) {
		return time.Time{}, false
	}
	t, err := time.Parse(isoLayout, text)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// Canonical formats t in the numeric shape with millisecond precision, in UTC.
func Canonical(t time.Time) string {
	return t.UTC().Format(canonicalLayout)
}

// Local renders t in loc as ISO-8601 with milliseconds and numeric offset.
func Local(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(localLayout)
}
