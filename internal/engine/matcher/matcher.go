// Package matcher tests log messages against a set of literal patterns.
package matcher

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/marktime/internal/ansi"
	"github.com/crimson-sun/marktime/internal/textio"
)

// Mode decides how many rows a message matching several patterns yields.
type Mode int

const (
	All   Mode = iota // one match per pattern found
	First             // only the first pattern in set order
)

// ParseMode converts "all" or "first" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return All, nil
	case "first":
		return First, nil
	default:
		return All, fmt.Errorf("matcher: unknown match mode %q", s)
	}
}

func (m Mode) String() string {
	if m == First {
		return "first"
	}
	return "all"
}

// Normalization selects how text is folded before comparison.
type Normalization int

const (
	None Normalization = iota // compare bytes as written
	NFC                       // compare canonical compositions
)

// ParseNormalization converts "none" or "nfc" to a Normalization.
func ParseNormalization(s string) (Normalization, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "nfc":
		return NFC, nil
	default:
		return None, fmt.Errorf("matcher: unknown normalization %q", s)
	}
}

func (n Normalization) String() string {
	if n == NFC {
		return "nfc"
	}
	return "none"
}

func (n Normalization) fold(s string) string {
	if n == NFC {
		return norm.NFC.String(s)
	}
	return s
}

// Set is an ordered collection of non-empty literal patterns.
type Set struct {
	patterns []string
}

// NewSet builds a Set from patterns, skipping blank entries.
func NewSet(patterns []string) Set {
	var s Set
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		s.patterns = append(s.patterns, p)
	}
	return s
}

// LoadSet reads a pattern file: one literal pattern per line, blank lines ignored.
func LoadSet(path string) (Set, error) {
	text, err := textio.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("matcher: %w", err)
	}
	return NewSet(textio.Lines(text)), nil
}

// Patterns returns the patterns in set order.
func (s Set) Patterns() []string { return s.patterns }

// Len returns the number of patterns.
func (s Set) Len() int { return len(s.patterns) }

// Option configures a Matcher.
type Option func(*Matcher)

// WithNormalization folds patterns and messages before comparison. Default: None.
func WithNormalization(n Normalization) Option {
	return func(m *Matcher) { m.norm = n }
}

// Matcher applies a Set to messages.
type Matcher struct {
	set    Set
	mode   Mode
	norm   Normalization
	folded []string
}

// New creates a Matcher for the given set and multi-match mode.
func New(set Set, mode Mode, opts ...Option) *Matcher {
	m := &Matcher{set: set, mode: mode}
	for _, opt := range opts {
		opt(m)
	}
	m.folded = make([]string, len(set.patterns))
	for i, p := range set.patterns {
		m.folded[i] = m.norm.fold(p)
	}
	return m
}

// Match returns the patterns contained in message after ANSI removal, in set order.
// Matching is case-sensitive plain substring containment, on folded text when
// a normalization is set.
func (m *Matcher) Match(message string) []string {
	clean := m.norm.fold(ansi.Strip(message))

	var hits []string
	for i, p := range m.folded {
		if !strings.Contains(clean, p) {
			continue
		}
		hits = append(hits, m.set.patterns[i])
		if m.mode == First {
			break
		}
	}
	return hits
}
