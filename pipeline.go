package alumnietl

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Status is the terminal state of one pipeline run.
type Status int

const (
	// StatusSucceeded: every stage completed and all four tables loaded.
	StatusSucceeded Status = iota

	// StatusPartial: the run completed but at least one table failed to
	// load. The warehouse holds a mix of new and prior contents.
	StatusPartial

	// StatusAborted: the run stopped before any load was attempted.
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusPartial:
		return "completed with load failures"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// TableResult is the outcome of loading one aggregate table.
type TableResult struct {
	Table string
	Rows  int
	Err   error
}

// Result is the report of one pipeline run.
type Result struct {
	Status    Status
	Extracted int
	Tables    []TableResult

	// Err is the abort cause; nil unless Status is StatusAborted.
	Err error
}

// ExitCode maps the run outcome onto a process exit status: 0 for a full
// success, 1 for an aborted run, 2 for a run that completed with partial
// load failures. Supervisors treating any nonzero status as a failure
// still catch both bad shapes.
func (r *Result) ExitCode() int {
	switch r.Status {
	case StatusAborted:
		return 1
	case StatusPartial:
		return 2
	default:
		return 0
	}
}

// Failed returns the table results that carry an error.
func (r *Result) Failed() []TableResult {
	var failed []TableResult
	for _, t := range r.Tables {
		if t.Err != nil {
			failed = append(failed, t)
		}
	}
	return failed
}

// Pipeline runs the survey ETL once: extract every record from the
// source table, aggregate in memory, load the four summary tables into
// the warehouse. Client handles are built once by New and reused
// read-only for the run; nothing is shared at package scope.
type Pipeline struct {
	source   Source
	sink     Sink
	archive  *archive
	notifier Notifier

	logger zerolog.Logger
}

// New builds the pipeline for the given configuration: the source client,
// the warehouse client, and, when configured, the archive and notifier.
// A client that cannot be constructed fails New with a connection error;
// no pipeline stage has run at that point.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		source: newAirtableSource(cfg.SourceBaseID, cfg.SourceTableName, cfg.SourceAPIKey),
		logger: newLogger(cfg.LogLevel, cfg.LogFormat),
	}

	sink, err := newWarehouse(ctx, cfg.WarehouseProjectID, cfg.WarehouseDatasetID)
	if err != nil {
		return nil, err
	}
	p.sink = sink

	if cfg.ArchiveBucket != "" {
		a, err := newArchive(ctx, cfg.ArchiveBucket)
		if err != nil {
			return nil, err
		}
		p.archive = a
	}

	if cfg.SlackToken != "" && cfg.SlackChannel != "" {
		p.notifier = &SlackNotifier{Token: cfg.SlackToken, Channel: cfg.SlackChannel}
	}

	for _, o := range opts {
		if err := o.apply(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func newLogger(level, format string) zerolog.Logger {
	lv, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lv = zerolog.InfoLevel
	}

	l := zerolog.New(os.Stdout)
	if format == "pretty" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return l.Level(lv).With().Timestamp().Logger()
}

// Run executes the pipeline exactly once and reports the outcome. An
// extraction failure aborts the run before any table is touched. Load
// failures are isolated per table: the remaining tables still load, and
// the run completes with a partial status.
func (p *Pipeline) Run(ctx context.Context) *Result {
	ctx = withStartedTime(ctx)
	ctx = p.logger.WithContext(ctx)
	l := log.Ctx(ctx)

	l.Info().Str("stage", "configured").Msg("pipeline starting")

	records, err := p.source.FetchAll(ctx)
	if err != nil {
		l.Error().Str("stage", "aborted").Err(err).Msg("extraction failed")
		res := &Result{Status: StatusAborted, Err: err}
		p.notify(ctx, res)
		return res
	}
	l.Info().Str("stage", "extracted").Int("records", len(records)).Msg("source records fetched")

	summary := Aggregate(records)
	tables := summary.Tables()
	l.Info().Str("stage", "transformed").
		Int("companies", len(summary.Companies)).
		Int("job_titles", len(summary.JobTitles)).
		Int("majors", len(summary.Majors)).
		Int("locations", len(summary.Locations)).
		Msg("aggregates computed")

	res := &Result{Status: StatusSucceeded, Extracted: len(records)}
	l.Info().Str("stage", "loading").Msg("loading aggregates")

	for _, t := range tables {
		tr := TableResult{Table: t.Name, Rows: len(t.Rows)}
		if err := p.sink.Load(ctx, t); err != nil {
			tr.Err = err
			res.Status = StatusPartial
			l.Error().Str("table", t.Name).Err(err).Msg("load failed")
		} else {
			l.Info().Str("table", t.Name).Int("rows", len(t.Rows)).Msg("table loaded")
		}
		res.Tables = append(res.Tables, tr)
	}

	if p.archive != nil {
		if err := p.archive.Store(ctx, tables); err != nil {
			// Audit copy only; the run outcome does not depend on it.
			l.Error().Err(err).Msg("archive failed")
		}
	}

	l.Info().Str("stage", "done").Stringer("status", res.Status).Msg("pipeline finished")
	p.notify(ctx, res)

	return res
}

func (p *Pipeline) notify(ctx context.Context, res *Result) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Notify(ctx, res); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to notify result")
	}
}
