package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/marktime/internal/connector"
	"github.com/crimson-sun/marktime/internal/engine"
	"github.com/crimson-sun/marktime/internal/output"
)

// Pipeline connects a connector, engine, and output into a processing pipeline.
type Pipeline struct {
	connector connector.Connector
	engine    *engine.Engine
	output    output.Output
	layout    output.Layout
}

// New creates a Pipeline from the given components. The pipeline owns out:
// Run closes it on success and discards it on failure.
func New(conn connector.Connector, eng *engine.Engine, out output.Output, layout output.Layout) *Pipeline {
	return &Pipeline{
		connector: conn,
		engine:    eng,
		output:    out,
		layout:    layout,
	}
}

// Result summarizes a run.
type Result struct {
	engine.Stats
	Rows int // data rows written, header excluded
}

// NoMatches reports whether the run produced a header-only table.
func (r Result) NoMatches() bool { return r.Rows == 0 }

// Run reads the whole input, annotates it and writes the table in one pass.
func (p *Pipeline) Run(ctx context.Context, cfg connector.ConnectorConfig) (Result, error) {
	res, err := p.run(ctx, cfg)
	if err != nil {
		if derr := output.Discard(p.output); derr != nil {
			slog.Warn("failed to discard partial output", "error", derr)
		}
		return res, err
	}
	if err := p.output.Close(); err != nil {
		return res, fmt.Errorf("pipeline output: %w", err)
	}
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, cfg connector.ConnectorConfig) (Result, error) {
	var res Result

	batch, err := p.connector.Query(ctx, cfg)
	if err != nil {
		return res, fmt.Errorf("pipeline query: %w", err)
	}

	events, stats, err := p.engine.ProcessBatch(batch.Records)
	res.Stats = stats
	if err != nil {
		return res, fmt.Errorf("pipeline process batch: %s: %w", cfg.Path, err)
	}
	slog.Debug("processed input", "path", cfg.Path, "records", stats.Records,
		"matched", stats.Matched, "skipped", stats.Skipped, "events", stats.Events)

	rows := p.engine.Annotate(events)

	n, err := output.Emit(ctx, p.output, p.layout, batch.Header, rows)
	res.Rows = n
	if err != nil {
		return res, fmt.Errorf("pipeline output: %w", err)
	}
	return res, nil
}
