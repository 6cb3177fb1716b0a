package stdout

import (
	"bytes"
	"context"
	"os"
	"testing"
)

// captureStdout redirects os.Stdout to capture output.
func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestOutputWritesCSV(t *testing.T) {
	result := captureStdout(func() {
		out := New()
		out.Write(context.Background(), []string{"timestamp", "message"})
		out.Write(context.Background(), []string{"2025-05-08T07:14:42.271-05:00", "a, b"})
		out.Close()
	})

	want := "timestamp,message\n2025-05-08T07:14:42.271-05:00,\"a, b\"\n"
	if result != want {
		t.Fatalf("got %q, want %q", result, want)
	}
}

func TestOutputBuffersUntilClose(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf)
	out.Write(context.Background(), []string{"a"})
	if buf.Len() != 0 {
		t.Fatalf("expected buffered output before Close, got %q", buf.String())
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if buf.String() != "a\n" {
		t.Fatalf("got %q", buf.String())
	}
}
