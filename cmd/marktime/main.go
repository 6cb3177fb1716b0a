package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/crimson-sun/marktime/internal/config"
	"github.com/crimson-sun/marktime/internal/connector"
	"github.com/crimson-sun/marktime/internal/engine"
	"github.com/crimson-sun/marktime/internal/engine/matcher"
	"github.com/crimson-sun/marktime/internal/engine/timing"
	"github.com/crimson-sun/marktime/internal/logging"
	"github.com/crimson-sun/marktime/internal/output"
	"github.com/crimson-sun/marktime/internal/output/async"
	"github.com/crimson-sun/marktime/internal/output/file"
	"github.com/crimson-sun/marktime/internal/output/multi"
	"github.com/crimson-sun/marktime/internal/output/stdout"
	"github.com/crimson-sun/marktime/internal/pipeline"
	"github.com/crimson-sun/marktime/internal/timestamp"

	// Register connector implementations.
	_ "github.com/crimson-sun/marktime/internal/connector/cloudwatch"
	_ "github.com/crimson-sun/marktime/internal/connector/csvtable"
	_ "github.com/crimson-sun/marktime/internal/connector/textlog"
)

const usage = `usage:
  marktime search [flags] <events.json> <patterns.txt> <out.csv>
  marktime lines  [flags] [file.txt]
  marktime enrich [flags] [file.csv]
`

const timedSuffix = ".timed.csv"

// teeBuffer is the number of rows queued for stdout before the table writer waits.
const teeBuffer = 4096

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "marktime: %v\n", err)
		os.Exit(1)
	}
}

// job is one resolved invocation: where to read, how to interpret it, where to write.
type job struct {
	provider string
	input    string
	dest     string
	format   timestamp.Format
	lenient  bool
	patterns string // search only
	layout   output.Layout
}

func run(ctx context.Context, args []string, stdoutW, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}
	cmd, rest := args[0], args[1:]

	cfg := config.Load()
	fs := flag.NewFlagSet("marktime "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Engine.Reference, "reference", cfg.Engine.Reference, "reference policy: global or grouped")
	fs.StringVar(&cfg.Engine.Match, "match", cfg.Engine.Match, "rows per multi-pattern message: all or first")
	fs.StringVar(&cfg.Engine.Normalize, "normalize", cfg.Engine.Normalize, "text folding before matching: none or nfc")
	fs.StringVar(&cfg.Output.Timezone, "tz", cfg.Output.Timezone, "display zone for local timestamps")
	fs.StringVar(&cfg.Output.Charset, "encoding", cfg.Output.Charset, "output charset: utf-8 or utf-8-bom")
	fs.BoolVar(&cfg.Output.Tee, "tee", cfg.Output.Tee, "also write rows to stdout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	dest := fs.String("o", "", "output path (lines and enrich)")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	cfg.Engine.Reference = strings.ToLower(cfg.Engine.Reference)
	cfg.Engine.Match = strings.ToLower(cfg.Engine.Match)
	cfg.Engine.Normalize = strings.ToLower(cfg.Engine.Normalize)
	cfg.Output.Charset = strings.ToLower(cfg.Output.Charset)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, err := cfg.Output.Location()
	if err != nil {
		return err
	}

	logging.Init(cfg.Output.Tee, logging.ParseLevel(cfg.LogLevel))

	j, err := resolve(cmd, fs.Args(), *dest, loc)
	if err != nil {
		if !errors.Is(err, connector.ErrInputNotFound) {
			fmt.Fprint(stderr, usage)
		}
		return err
	}
	slog.Info("resolved input", "command", cmd, "input", j.input, "output", j.dest)

	return execute(ctx, cfg, j, stdoutW)
}

// resolve validates arguments for cmd and discovers inputs when none are given.
func resolve(cmd string, args []string, dest string, loc *time.Location) (job, error) {
	switch cmd {
	case "search":
		if len(args) != 3 {
			return job{}, fmt.Errorf("search: expected 3 arguments, got %d", len(args))
		}
		for _, p := range args[:2] {
			if err := connector.RequireFile(p); err != nil {
				return job{}, err
			}
		}
		return job{
			provider: "cloudwatch",
			input:    args[0],
			patterns: args[1],
			dest:     args[2],
			format:   timestamp.Numeric,
			lenient:  true,
			layout:   output.SearchLayout{Location: loc},
		}, nil

	case "lines":
		in, err := inputArg(cmd, args, ".txt")
		if err != nil {
			return job{}, err
		}
		if dest == "" {
			dest = stem(in) + ".csv"
		}
		return job{
			provider: "textlog",
			input:    in,
			dest:     dest,
			format:   timestamp.ISO8601,
			layout:   output.LinesLayout{},
		}, nil

	case "enrich":
		in, err := inputArg(cmd, args, ".csv", timedSuffix)
		if err != nil {
			return job{}, err
		}
		if dest == "" {
			dest = stem(in) + timedSuffix
		}
		return job{
			provider: "csvtable",
			input:    in,
			dest:     dest,
			format:   timestamp.Numeric,
			layout:   output.EnrichLayout{},
		}, nil

	default:
		return job{}, fmt.Errorf("unknown command %q", cmd)
	}
}

// inputArg returns the explicit input path, or discovers the single file with
// extension ext in the working directory.
func inputArg(cmd string, args []string, ext string, exclude ...string) (string, error) {
	switch len(args) {
	case 0:
		return connector.Discover(".", ext, exclude...)
	case 1:
		if err := connector.RequireFile(args[0]); err != nil {
			return "", err
		}
		return args[0], nil
	default:
		return "", fmt.Errorf("%s: expected at most 1 argument, got %d", cmd, len(args))
	}
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func execute(ctx context.Context, cfg config.Config, j job, stdoutW io.Writer) error {
	policy, err := timing.ParsePolicy(cfg.Engine.Reference)
	if err != nil {
		return err
	}
	opts := []engine.Option{engine.WithPolicy(policy)}
	if j.lenient {
		opts = append(opts, engine.WithLenientTimestamps())
	}
	if j.patterns != "" {
		mode, err := matcher.ParseMode(cfg.Engine.Match)
		if err != nil {
			return err
		}
		fold, err := matcher.ParseNormalization(cfg.Engine.Normalize)
		if err != nil {
			return err
		}
		set, err := matcher.LoadSet(j.patterns)
		if err != nil {
			return err
		}
		if set.Len() == 0 {
			slog.Warn("pattern file has no patterns", "path", j.patterns)
		}
		opts = append(opts, engine.WithMatcher(matcher.New(set, mode, matcher.WithNormalization(fold))))
	}
	eng := engine.New(j.format, opts...)

	ctor, err := connector.Get(j.provider)
	if err != nil {
		return err
	}

	fileOut, err := file.New(j.dest, file.WithCharset(cfg.Output.Charset))
	if err != nil {
		return err
	}
	var out output.Output = fileOut
	var teeErrors atomic.Int64
	if cfg.Output.Tee {
		mirror := async.New(stdout.NewWriter(stdoutW),
			async.WithBufferSize(teeBuffer),
			async.WithOnError(func(err error) {
				if teeErrors.Add(1) == 1 {
					slog.Warn("stdout mirror write failed", "error", err)
				}
			}),
		)
		out = multi.New(fileOut, mirror)
	}

	p := pipeline.New(ctor(), eng, out, j.layout)
	res, err := p.Run(ctx, connector.ConnectorConfig{
		Provider: j.provider,
		Path:     j.input,
		Extra:    cfg.Source.Extra(),
	})
	if err != nil {
		return err
	}

	if n := teeErrors.Load(); n > 0 {
		slog.Warn("stdout mirror missed rows", "failed_writes", n)
	}
	if res.NoMatches() {
		slog.Info("no matches", "path", fileOut.Path(), "records", res.Records)
	}
	if res.Skipped > 0 {
		slog.Warn("skipped records with unparseable timestamps", "count", res.Skipped)
	}
	slog.Info(fmt.Sprintf("generated %s with %d rows", fileOut.Path(), res.Rows),
		"records", res.Records, "matched", res.Matched)
	return nil
}
