package stdout

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Output writes CSV records to stdout.
type Output struct {
	w *csv.Writer
}

// New creates a new stdout Output.
func New() *Output {
	return NewWriter(os.Stdout)
}

// NewWriter creates an Output writing to w instead of stdout.
func NewWriter(w io.Writer) *Output {
	return &Output{w: csv.NewWriter(w)}
}

func (o *Output) Write(_ context.Context, record []string) error {
	if err := o.w.Write(record); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

// Close flushes buffered records. stdout itself stays open.
func (o *Output) Close() error {
	o.w.Flush()
	if err := o.w.Error(); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}
