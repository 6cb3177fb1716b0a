package output

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/crimson-sun/marktime/internal/model"
)

type recorder struct {
	records [][]string
	failAt  int // 1-based Write call that fails, 0 = never
	closed  bool
	calls   int
}

func (r *recorder) Write(_ context.Context, record []string) error {
	r.calls++
	if r.failAt == r.calls {
		return errors.New("write failed")
	}
	r.records = append(r.records, record)
	return nil
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func row(name, pattern string, instant time.Time, accum, delta int64) Row {
	return Row{
		CanonicalEvent: model.CanonicalEvent{
			Name:           name,
			Instant:        instant,
			MatchedPattern: pattern,
			Message:        "X " + pattern,
			Timestamp:      "2025-05-08T07:14:42.271-05:00",
			Columns:        []string{"2025-05-08 04:11:31.234", "payload"},
		},
		AccumMS: accum,
		DeltaMS: delta,
	}
}

var instant = time.Date(2025, 5, 8, 4, 11, 39, 127_000_000, time.UTC)

func TestEmitWritesHeaderAndRows(t *testing.T) {
	rec := &recorder{}
	rows := []Row{row("svc", "start", instant, 0, 0), row("svc", "done", instant.Add(500*time.Millisecond), 500, 500)}

	n, err := Emit(context.Background(), rec, LinesLayout{}, nil, rows)
	if err != nil {
		t.Fatalf("Emit error: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if len(rec.records) != 3 {
		t.Fatalf("got %d records, want header + 2", len(rec.records))
	}
	if !reflect.DeepEqual(rec.records[0], []string{"timestamp", "message", "accum_ms", "delta_ms"}) {
		t.Fatalf("header = %q", rec.records[0])
	}
	if !reflect.DeepEqual(rec.records[2], []string{"2025-05-08T07:14:42.271-05:00", "X done", "500", "500"}) {
		t.Fatalf("row = %q", rec.records[2])
	}
}

func TestEmitEmptyWritesHeaderOnly(t *testing.T) {
	rec := &recorder{}
	n, err := Emit(context.Background(), rec, SearchLayout{}, nil, nil)
	if err != nil {
		t.Fatalf("Emit error: %v", err)
	}
	if n != 0 || len(rec.records) != 1 {
		t.Fatalf("n=%d records=%d, want header only", n, len(rec.records))
	}
}

func TestEmitPropagatesWriteError(t *testing.T) {
	rec := &recorder{failAt: 2}
	_, err := Emit(context.Background(), rec, LinesLayout{}, nil, []Row{row("a", "p", instant, 0, 0)})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestEmitStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	_, err := Emit(ctx, rec, LinesLayout{}, nil, []Row{row("a", "p", instant, 0, 0)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSearchLayout(t *testing.T) {
	l := SearchLayout{Location: time.FixedZone("COT", -5*3600)}
	if got := l.Header(nil); !reflect.DeepEqual(got, []string{"name", "local_timestamp", "matched_pattern", "relative_ms"}) {
		t.Fatalf("header = %q", got)
	}
	got := l.Record(row("orders", "start", instant, 42, 7))
	want := []string{"orders", "2025-05-07T23:11:39.127-05:00", "start", "42"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("record = %q, want %q", got, want)
	}
}

func TestEnrichLayoutAppendsColumns(t *testing.T) {
	source := []string{"ts", "detail"}
	l := EnrichLayout{}

	header := l.Header(source)
	if !reflect.DeepEqual(header, []string{"ts", "detail", "accum_ms", "delta_ms"}) {
		t.Fatalf("header = %q", header)
	}
	if len(source) != 2 {
		t.Fatal("Header modified the source header")
	}

	r := row("", "", instant, 1500, 250)
	got := l.Record(r)
	if !reflect.DeepEqual(got, []string{"2025-05-08 04:11:31.234", "payload", "1500", "250"}) {
		t.Fatalf("record = %q", got)
	}
	if len(r.Columns) != 2 {
		t.Fatal("Record modified the row columns")
	}
}

func TestDiscardFallsBackToClose(t *testing.T) {
	rec := &recorder{}
	if err := Discard(rec); err != nil {
		t.Fatalf("Discard error: %v", err)
	}
	if !rec.closed {
		t.Fatal("expected Close for outputs without Discard")
	}
}
