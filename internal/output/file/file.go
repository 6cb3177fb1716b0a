package file

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/crimson-sun/marktime/internal/textio"
)

const defaultBufSize = 64 * 1024 // 64KB

// ErrClosed is returned by Write after Close or Discard.
var ErrClosed = errors.New("file output: closed")

// Option configures a file Output.
type Option func(*Output)

// WithCharset sets the output charset (textio.UTF8 or textio.UTF8BOM). Default: UTF-8.
func WithCharset(charset string) Option {
	return func(o *Output) { o.charset = charset }
}

// WithBufSize sets the bufio.Writer buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// Output writes CSV to a temporary file next to path and renames it into
// place on Close, so a failed run never leaves a partial table behind.
type Output struct {
	mu      sync.Mutex
	path    string
	charset string
	bufSize int

	f    *os.File
	buf  *bufio.Writer
	enc  io.WriteCloser
	csv  *csv.Writer
	done bool
}

// New creates a file output that will publish a CSV table at path.
func New(path string, opts ...Option) (*Output, error) {
	o := &Output{
		path:    path,
		charset: textio.UTF8,
		bufSize: defaultBufSize,
	}
	for _, opt := range opts {
		opt(o)
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("file output: create temp for %s: %w", path, err)
	}
	o.f = f
	o.buf = bufio.NewWriterSize(f, o.bufSize)
	o.enc, err = textio.NewWriter(o.buf, o.charset)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("file output: %w", err)
	}
	o.csv = csv.NewWriter(o.enc)
	return o, nil
}

// Path returns the final destination path.
func (o *Output) Path() string { return o.path }

// Write appends one CSV record.
func (o *Output) Write(_ context.Context, record []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return ErrClosed
	}
	if err := o.csv.Write(record); err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	return nil
}

// Close flushes all buffers and atomically moves the table to its destination.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return nil
	}
	o.done = true

	tmp := o.f.Name()
	if err := o.flush(); err != nil {
		o.f.Close()
		os.Remove(tmp)
		return fmt.Errorf("file output: flush: %w", err)
	}
	if err := o.f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("file output: close: %w", err)
	}
	// CreateTemp uses 0600.
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("file output: chmod: %w", err)
	}
	if err := os.Rename(tmp, o.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("file output: rename to %s: %w", o.path, err)
	}
	return nil
}

// Discard drops everything written and removes the temporary file.
func (o *Output) Discard() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return nil
	}
	o.done = true
	o.f.Close()
	if err := os.Remove(o.f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file output: discard: %w", err)
	}
	return nil
}

func (o *Output) flush() error {
	o.csv.Flush()
	if err := o.csv.Error(); err != nil {
		return err
	}
	if err := o.enc.Close(); err != nil {
		return err
	}
	return o.buf.Flush()
}
