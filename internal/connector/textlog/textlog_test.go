package textlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/crimson-sun/marktime/internal/connector"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		ok      bool
		ts, msg string
	}{
		{"bracketed", "[2025-05-08T07:14:42.271-05:00   Login started]", true, "2025-05-08T07:14:42.271-05:00", "Login started"},
		{"bare", "2025-05-08T07:14:42.271+00:00 ready", true, "2025-05-08T07:14:42.271+00:00", "ready"},
		{"zulu", "2025-05-08T07:14:42.271Z ready", true, "2025-05-08T07:14:42.271Z", "ready"},
		{"ansi", "\x1b[36m2025-05-08T07:14:42.271-05:00\x1b[0m \x1b[1mboot\x1b[0m", true, "2025-05-08T07:14:42.271-05:00", "boot"},
		{"single bracket layer", "[[2025-05-08T07:14:42.271-05:00 x]]", false, "", ""},
		{"keeps inner brackets", "[2025-05-08T07:14:42.271-05:00 [main] up]", true, "2025-05-08T07:14:42.271-05:00", "[main] up"},
		{"no timestamp", "plain text", false, "", ""},
		{"timestamp not leading", "at 2025-05-08T07:14:42.271-05:00 x", false, "", ""},
		{"blank", "   ", false, "", ""},
		{"empty message", "2025-05-08T07:14:42.271-05:00", true, "2025-05-08T07:14:42.271-05:00", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := ParseLine(tt.line)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if rec.Timestamp != tt.ts || rec.Message != tt.msg {
				t.Fatalf("got ts=%q msg=%q, want ts=%q msg=%q", rec.Timestamp, rec.Message, tt.ts, tt.msg)
			}
		})
	}
}

func TestExtractNumbersLines(t *testing.T) {
	records := Extract([]string{
		"",
		"[2025-05-08T07:14:42.271-05:00 a]",
		"noise",
		"[2025-05-08T07:14:42.500-05:00 b]",
	})
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Line != 2 || records[1].Line != 4 {
		t.Fatalf("lines = %d, %d", records[0].Line, records[1].Line)
	}
}

func TestQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.txt")
	os.WriteFile(path, []byte("[2025-05-08T07:14:42.271-05:00 a]\r\n\r\n[2025-05-08T07:14:43.000-05:00 b]\r\n"), 0o644)

	ctor, err := connector.Get("textlog")
	if err != nil {
		t.Fatalf("connector not registered: %v", err)
	}
	batch, err := ctor().Query(context.Background(), connector.ConnectorConfig{Path: path})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(batch.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(batch.Records))
	}
	if batch.Records[1].Message != "b" {
		t.Fatalf("message = %q", batch.Records[1].Message)
	}
}
