// Package cloudwatch reads CloudWatch Logs Insights JSON exports.
package cloudwatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/crimson-sun/marktime/internal/connector"
	"github.com/crimson-sun/marktime/internal/model"
	"github.com/crimson-sun/marktime/internal/textio"
)

// Default field names of an exported event.
const (
	DefaultMessageField   = "@message"
	DefaultTimestampField = "@timestamp"
	DefaultGroupField     = "@logStream"
	DefaultNameField      = "@entity.KeyAttributes.Name"

	// DefaultGroup is used for events without a group field.
	DefaultGroup = "unknown-stream"
)

func init() {
	connector.Register("cloudwatch", func() connector.Connector {
		return &Connector{}
	})
}

// Connector implements connector.Connector for a JSON object mapping log group
// names to arrays of event objects.
type Connector struct{}

// Fields names the event keys records are read from.
type Fields struct {
	Message   string
	Timestamp string
	Group     string
	Name      string
}

// FieldsFrom reads field-name overrides from a connector Extra map, falling
// back to the export defaults.
func FieldsFrom(extra map[string]string) Fields {
	get := func(key, fallback string) string {
		if v := extra[key]; v != "" {
			return v
		}
		return fallback
	}
	return Fields{
		Message:   get("message_field", DefaultMessageField),
		Timestamp: get("timestamp_field", DefaultTimestampField),
		Group:     get("group_field", DefaultGroupField),
		Name:      get("name_field", DefaultNameField),
	}
}

func (c *Connector) Query(ctx context.Context, cfg connector.ConnectorConfig) (model.Batch, error) {
	text, err := textio.ReadFile(cfg.Path)
	if err != nil {
		return model.Batch{}, fmt.Errorf("cloudwatch connector: %w", err)
	}
	records, err := Decode(strings.NewReader(text), FieldsFrom(cfg.Extra))
	if err != nil {
		return model.Batch{}, fmt.Errorf("cloudwatch connector: %s: %w", cfg.Path, err)
	}
	return model.Batch{Records: records}, ctx.Err()
}

// Decode flattens every array-valued group of the export into records, in
// file order. Non-array group values are skipped.
func Decode(r io.Reader, f Fields) ([]model.RawRecord, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode: expected a JSON object of log groups, got %v", tok)
	}

	var records []model.RawRecord
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		group, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode group %q: %w", group, err)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			slog.Debug("skipping non-array log group", "group", group)
			continue
		}

		events, err := decodeEvents(raw)
		if err != nil {
			return nil, fmt.Errorf("decode group %q: %w", group, err)
		}
		for _, ev := range events {
			records = append(records, toRawRecord(ev, f))
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return records, nil
}

func decodeEvents(raw json.RawMessage) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var events []map[string]any
	if err := dec.Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

func toRawRecord(ev map[string]any, f Fields) model.RawRecord {
	group := stringField(ev, f.Group)
	if group == "" {
		group = DefaultGroup
	}
	return model.RawRecord{
		Message:   stringField(ev, f.Message),
		Timestamp: stringField(ev, f.Timestamp),
		Group:     group,
		Name:      stringField(ev, f.Name),
	}
}

func stringField(ev map[string]any, key string) string {
	switch v := ev[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
