// Package textlog extracts timestamped entries from free-text log files.
package textlog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/crimson-sun/marktime/internal/ansi"
	"github.com/crimson-sun/marktime/internal/connector"
	"github.com/crimson-sun/marktime/internal/model"
	"github.com/crimson-sun/marktime/internal/textio"
)

// leading matches an ISO-8601 timestamp with milliseconds and offset at the
// start of an entry, e.g. 2025-05-08T07:14:42.271-05:00.
var leading = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}(?:[-+]\d{2}:\d{2}|Z)`)

func init() {
	connector.Register("textlog", func() connector.Connector {
		return &Connector{}
	})
}

// Connector implements connector.Connector for line-oriented text logs.
type Connector struct{}

func (c *Connector) Query(ctx context.Context, cfg connector.ConnectorConfig) (model.Batch, error) {
	text, err := textio.ReadFile(cfg.Path)
	if err != nil {
		return model.Batch{}, fmt.Errorf("textlog connector: %w", err)
	}
	return model.Batch{Records: Extract(textio.Lines(text))}, ctx.Err()
}

// Extract returns one record per line that starts with a timestamp. Blank
// lines and lines without a leading timestamp are dropped.
func Extract(lines []string) []model.RawRecord {
	var records []model.RawRecord
	for i, l := range lines {
		rec, ok := ParseLine(l)
		if !ok {
			continue
		}
		rec.Line = i + 1
		records = append(records, rec)
	}
	return records
}

// ParseLine splits a single entry into timestamp text and message.
func ParseLine(line string) (model.RawRecord, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.RawRecord{}, false
	}
	line = strings.TrimPrefix(line, "[")
	line = strings.TrimSuffix(line, "]")
	line = strings.TrimSpace(ansi.Strip(line))

	ts := leading.FindString(line)
	if ts == "" {
		return model.RawRecord{}, false
	}
	return model.RawRecord{
		Timestamp: ts,
		Message:   strings.TrimSpace(line[len(ts):]),
	}, true
}
