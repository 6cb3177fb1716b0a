package output

import (
	"context"
	"fmt"
)

// Output defines the interface for table destinations. The first record
// written is the header.
type Output interface {
	Write(ctx context.Context, record []string) error
	Close() error
}

// Discarder is implemented by outputs that can abandon everything written so
// far instead of publishing it.
type Discarder interface {
	Discard() error
}

// Emit writes the layout header followed by one record per row and returns
// the number of data rows written. A header is written even when rows is empty.
func Emit(ctx context.Context, out Output, layout Layout, source []string, rows []Row) (int, error) {
	if err := out.Write(ctx, layout.Header(source)); err != nil {
		return 0, fmt.Errorf("emit header: %w", err)
	}
	n := 0
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := out.Write(ctx, layout.Record(r)); err != nil {
			return n, fmt.Errorf("emit row %d: %w", n+1, err)
		}
		n++
	}
	return n, nil
}

// Discard abandons out's pending data if it supports it, otherwise closes it.
func Discard(out Output) error {
	if d, ok := out.(Discarder); ok {
		return d.Discard()
	}
	return out.Close()
}
