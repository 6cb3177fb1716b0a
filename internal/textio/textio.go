// Package textio reads input files and encodes output text using golang.org/x/text.
package textio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names accepted for output encoding.
const (
	UTF8    = "utf-8"
	UTF8BOM = "utf-8-bom"
)

// ErrInvalidUTF8 is returned for input that is neither UTF-16 with a byte
// order mark nor valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// ReadFile reads a whole file as UTF-8 text. A leading byte order mark selects
// UTF-8 or UTF-16 decoding and is removed; files without one are read as UTF-8.
// Invalid UTF-8 is rejected rather than replaced, so text passes through unchanged.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("textio: %w", err)
	}
	if !isUTF16(data) {
		if i := invalidAt(data); i >= 0 {
			return "", fmt.Errorf("textio: %s: byte %d: %w", path, i, ErrInvalidUTF8)
		}
	}

	text, err := io.ReadAll(NewReader(bytes.NewReader(data)))
	if err != nil {
		return "", fmt.Errorf("textio: read %s: %w", path, err)
	}
	return string(text), nil
}

func isUTF16(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xff, 0xfe}) || bytes.HasPrefix(data, []byte{0xfe, 0xff})
}

// invalidAt returns the offset of the first invalid UTF-8 sequence, or -1.
func invalidAt(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// NewReader wraps r with BOM-aware decoding to UTF-8.
func NewReader(r io.Reader) io.Reader {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(r, dec)
}

// NewWriter wraps w so text written to it is encoded in the named charset.
// Close flushes pending bytes; it does not close w.
func NewWriter(w io.Writer, charset string) (io.WriteCloser, error) {
	enc, err := lookup(charset)
	if err != nil {
		return nil, err
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}

func lookup(charset string) (encoding.Encoding, error) {
	switch strings.ToLower(charset) {
	case "", UTF8:
		return unicode.UTF8, nil
	case UTF8BOM:
		return unicode.UTF8BOM, nil
	default:
		return nil, fmt.Errorf("textio: unsupported charset %q", charset)
	}
}

// Lines splits text into lines, dropping the line terminators ("\n" or "\r\n").
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
