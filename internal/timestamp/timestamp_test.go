package timestamp

import (
	"errors"
	"testing"
	"time"
)

func TestParseNumeric(t *testing.T) {
	got, err := Parse("2025-05-08 04:11:31.234", Numeric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 5, 8, 4, 11, 31, 234_000_000, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
}

func TestParseNumericWithoutFraction(t *testing.T) {
	got, err := Parse("2025-05-08 04:11:31", Numeric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Nanosecond() != 0 {
		t.Fatalf("expected whole second, got %v", got)
	}
}

func TestParseISONormalizesToUTC(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-05-08T07:14:42.271-05:00", time.Date(2025, 5, 8, 12, 14, 42, 271_000_000, time.UTC)},
		{"2025-05-08T07:14:42.271+02:00", time.Date(2025, 5, 8, 5, 14, 42, 271_000_000, time.UTC)},
		{"2025-05-08T07:14:42.271Z", time.Date(2025, 5, 8, 7, 14, 42, 271_000_000, time.UTC)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input, ISO8601)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.input, err)
		}
		if !got.Equal(tt.want) || got.Location() != time.UTC {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseAuto(t *testing.T) {
	for _, s := range []string{"2025-05-08 04:11:31.234", "2025-05-08T04:11:31.234+00:00"} {
		got, err := Parse(s, Auto)
		if err != nil {
			t.Fatalf("Parse(%q, Auto): %v", s, err)
		}
		want := time.Date(2025, 5, 8, 4, 11, 31, 234_000_000, time.UTC)
		if !got.Equal(want) {
			t.Errorf("Parse(%q, Auto) = %v, want %v", s, got, want)
		}
	}
}

func TestParseRejectsWrongShape(t *testing.T) {
	tests := []struct {
		input  string
		format Format
	}{
		{"2025-05-08T04:11:31.234-05:00", Numeric},
		{"2025-05-08 04:11:31.234", ISO8601},
		{"yesterday", Auto},
		{"", Auto},
		{"2025-13-08 04:11:31.234", Numeric},
		{"2025-05-08 04:11:31,234", Numeric},
		{"2025-05-08 4:11:31.234", Numeric},
		{"2025-05-08 04:11:31.", Numeric},
		{" 2025-05-08 04:11:31.234", Numeric},
		{"2025-05-08T04:11:31,234Z", ISO8601},
		{"2025-05-08T4:11:31.234Z", ISO8601},
		{"2025-05-08T04:11:31.234-0500", ISO8601},
	}
	for _, tt := range tests {
		_, err := Parse(tt.input, tt.format)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("Parse(%q, %v): expected *ParseError, got %v", tt.input, tt.format, err)
		}
		if pe.Text != tt.input {
			t.Errorf("ParseError.Text = %q, want %q", pe.Text, tt.input)
		}
	}
}

func TestParseErrorMessageIncludesText(t *testing.T) {
	_, err := Parse("not-a-time", Numeric)
	if err == nil {
		t.Fatal("expected error")
	}
	want := `timestamp: cannot parse "not-a-time" as numeric`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	inputs := []string{
		"2025-05-08 04:11:31.234",
		"2025-05-08 04:11:31.000",
		"1999-12-31 23:59:59.999",
	}
	for _, in := range inputs {
		ts, err := Parse(in, Numeric)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got := Canonical(ts); got != in {
			t.Errorf("Canonical(Parse(%q)) = %q", in, got)
		}
	}
}

func TestCanonicalTruncatesSubMillisecond(t *testing.T) {
	ts, err := Parse("2025-05-08 04:11:31.234567", Numeric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Canonical(ts); got != "2025-05-08 04:11:31.234" {
		t.Fatalf("got %q", got)
	}
}

func TestLocal(t *testing.T) {
	ts := time.Date(2025, 5, 8, 4, 11, 39, 127_000_000, time.UTC)
	loc := time.FixedZone("COT", -5*3600)
	if got := Local(ts, loc); got != "2025-05-07T23:11:39.127-05:00" {
		t.Fatalf("got %q", got)
	}
	if got := Local(ts, nil); got != "2025-05-08T04:11:39.127+00:00" {
		t.Fatalf("nil location: got %q", got)
	}
}
