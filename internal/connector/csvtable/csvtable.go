// Package csvtable reads delimited tables whose first column is a timestamp.
package csvtable

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/crimson-sun/marktime/internal/connector"
	"github.com/crimson-sun/marktime/internal/model"
	"github.com/crimson-sun/marktime/internal/textio"
)

// ErrEmptyTable is returned for an input without a header row.
var ErrEmptyTable = errors.New("table has no header row")

func init() {
	connector.Register("csvtable", func() connector.Connector {
		return &Connector{}
	})
}

// Connector implements connector.Connector for CSV files with a header row.
type Connector struct{}

func (c *Connector) Query(ctx context.Context, cfg connector.ConnectorConfig) (model.Batch, error) {
	text, err := textio.ReadFile(cfg.Path)
	if err != nil {
		return model.Batch{}, fmt.Errorf("csvtable connector: %w", err)
	}

	batch, err := Read(strings.NewReader(text))
	if err != nil {
		return model.Batch{}, fmt.Errorf("csvtable connector: %s: %w", cfg.Path, err)
	}
	return batch, ctx.Err()
}

// Read parses a header row followed by data rows. Every data row must have as
// many columns as the header.
func Read(r io.Reader) (model.Batch, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.Batch{}, ErrEmptyTable
	}
	if err != nil {
		return model.Batch{}, err
	}
	if len(header) == 0 {
		return model.Batch{}, ErrEmptyTable
	}

	batch := model.Batch{Header: header}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Batch{}, err
		}
		line, _ := cr.FieldPos(0)
		batch.Records = append(batch.Records, model.RawRecord{
			Timestamp: row[0],
			Columns:   row,
			Line:      line,
		})
	}
	return batch, nil
}
