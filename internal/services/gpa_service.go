package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"gpacalc/internal/config"
	"gpacalc/internal/dataprocessing"
	apperrors "gpacalc/internal/errors"
	"gpacalc/internal/exporter"
	"gpacalc/internal/gpa"
	"gpacalc/internal/infrastructure"
	"gpacalc/internal/validation"
	"gpacalc/pkg/contracts/domain"
)

// Validation failure reasons recorded on gpa_validation_failures_total.
const (
	ReasonSchema           = "schema"
	ReasonIdentityConflict = "identity_conflict"
)

// CalculateOptions selects the roster layout and rounding for one calculation.
type CalculateOptions struct {
	Schema    gpa.Schema
	Precision int
}

// Result is the outcome of one roster calculation.
type Result struct {
	Source    string
	Schema    gpa.Schema
	Precision int
	Rows      []domain.StudentSummaryRow
	Warnings  []gpa.Warning
}

// Columns returns the summary header for the result's schema.
func (r *Result) Columns() []string {
	return r.Schema.OutputColumns()
}

// FileOutcome reports what happened to one file of a batch.
type FileOutcome struct {
	Path    string
	Result  *Result
	Outputs []string
	Err     error
}

// GPAService runs rosters through parse, validation, aggregation and export.
// It holds no per-roster state, so one instance serves concurrent callers.
type GPAService struct {
	roster     config.RosterConfig
	export     config.ExportConfig
	processing config.ProcessingConfig

	files   *validation.FileValidator
	excel   *exporter.ExcelExporter
	tracer  trace.Tracer
	metrics *infrastructure.GPAMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewGPAService wires the service. A nil tracer or metrics falls back to the
// global OpenTelemetry providers.
func NewGPAService(cfg *config.Config, tracer trace.Tracer, metrics *infrastructure.GPAMetrics, logger *slog.Logger) *GPAService {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.InstrumentationName)
	}
	if metrics == nil {
		// The global meter never rejects instrument creation.
		metrics, _ = infrastructure.CreateGPAMetrics(otel.Meter(infrastructure.InstrumentationName))
	}
	logger = infrastructure.WithComponent(logger, "gpa_service")

	return &GPAService{
		roster:     cfg.Roster,
		export:     cfg.Export,
		processing: cfg.Processing,
		files:      validation.NewFileValidator(logger),
		excel:      exporter.NewExcelExporter(logger),
		tracer:     tracer,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// DefaultOptions returns the configured schema and precision.
func (s *GPAService) DefaultOptions() CalculateOptions {
	return CalculateOptions{
		Schema:    gpa.Schema{StudentIDColumn: s.roster.StudentIDColumn},
		Precision: s.roster.Precision,
	}
}

// Calculate decodes, validates and aggregates a raw roster. Schema and
// identity failures are returned unwrapped as *gpa.SchemaError and
// *gpa.IdentityConflictError.
func (s *GPAService) Calculate(ctx context.Context, table gpa.Table, opts CalculateOptions) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "gpa.calculate", trace.WithAttributes(
		attribute.String("gpa.student_id_column", opts.Schema.StudentIDColumn),
		attribute.Int("gpa.precision", opts.Precision),
		attribute.Int("gpa.input_rows", len(table.Rows)),
	))
	defer span.End()
	start := time.Now()

	roster := gpa.Decode(table, opts.Schema)
	s.metrics.RecordsDecoded.Add(ctx, int64(len(roster.Records)))
	s.reportWarnings(ctx, roster.Warnings)

	if err := gpa.Validate(roster); err != nil {
		reason := ReasonSchema
		var conflictErr *gpa.IdentityConflictError
		if errors.As(err, &conflictErr) {
			reason = ReasonIdentityConflict
		}
		s.metrics.ValidationFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "roster rejected",
			slog.String("reason", reason),
			slog.String("error", err.Error()))
		return nil, err
	}

	rows := gpa.NewAggregator(gpa.Options{Precision: opts.Precision}).Aggregate(roster)

	s.metrics.RostersProcessed.Add(ctx, 1)
	s.metrics.ProcessingDuration.Record(ctx, time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("gpa.students", len(rows)))

	s.logger.InfoContext(ctx, "roster aggregated",
		slog.Int("records", len(roster.Records)),
		slog.Int("students", len(rows)),
		slog.Int("warnings", len(roster.Warnings)))

	return &Result{
		Schema:    opts.Schema,
		Precision: opts.Precision,
		Rows:      rows,
		Warnings:  roster.Warnings,
	}, nil
}

// ProcessFile validates and parses the roster at path, then calculates it
// with the configured options.
func (s *GPAService) ProcessFile(ctx context.Context, path string) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "gpa.process_file", trace.WithAttributes(
		attribute.String("gpa.file", filepath.Base(path)),
	))
	defer span.End()
	ctx = infrastructure.EnsureTraceID(ctx)

	if err := s.files.ValidateRosterFile(path); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	table, err := dataprocessing.ParseRosterFile(ctx, path)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read roster %s", filepath.Base(path)), err).
			WithContext("path", path)
	}

	result, err := s.Calculate(ctx, table, s.DefaultOptions())
	if err != nil {
		return nil, err
	}
	result.Source = path
	return result, nil
}

// ExportResult writes the workbook, and the CSV when enabled, into the
// configured output directory or next to inputPath. It returns the written paths.
func (s *GPAService) ExportResult(ctx context.Context, result *Result, inputPath string) ([]string, error) {
	return s.exportResult(ctx, result, inputPath, "")
}

func (s *GPAService) exportResult(ctx context.Context, result *Result, inputPath, tag string) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "gpa.export")
	defer span.End()

	dir := s.export.OutputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	if err := s.files.ValidateOutputDirectory(dir); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	now := s.now()
	name := func(ext string) string {
		if tag == "" {
			return exporter.OutputFileName(now, ext)
		}
		return exporter.TaggedOutputFileName(tag, now, ext)
	}

	idColumn := result.Schema.IDColumn()
	workbook := filepath.Join(dir, name("xlsx"))
	if err := s.excel.Export(workbook, result.Rows, idColumn); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, apperrors.NewStorageError("failed to write summary workbook", err).WithContext("path", workbook)
	}
	outputs := []string{workbook}

	if s.export.WriteCSV {
		csvName := name("csv")
		csvPath := filepath.Join(dir, csvName)
		if err := exporter.NewCSVWriter(dir).WriteSummaries(csvName, result.Rows, idColumn, result.Precision); err != nil {
			infrastructure.RecordError(ctx, err)
			return outputs, apperrors.NewStorageError("failed to write summary csv", err).WithContext("path", csvPath)
		}
		outputs = append(outputs, csvPath)
	}

	span.SetAttributes(attribute.StringSlice("gpa.outputs", outputs))
	return outputs, nil
}

// ProcessBatch processes and exports every path with at most
// Processing.MaxConcurrency rosters in flight. One failing roster does not
// stop the others; outcomes are returned in input order. Output names carry
// the input file name so rosters sharing a directory do not collide.
func (s *GPAService) ProcessBatch(ctx context.Context, paths []string) []FileOutcome {
	ctx, span := s.tracer.Start(ctx, "gpa.batch", trace.WithAttributes(
		attribute.Int("gpa.files", len(paths)),
	))
	defer span.End()
	ctx = infrastructure.EnsureTraceID(ctx)

	outcomes := make([]FileOutcome, len(paths))

	var g errgroup.Group
	g.SetLimit(max(1, s.processing.MaxConcurrency))

	for i, path := range paths {
		g.Go(func() error {
			outcomes[i] = s.processOne(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("gpa.failed", failed))
	s.logger.InfoContext(ctx, "batch finished",
		slog.Int("files", len(paths)),
		slog.Int("failed", failed))

	return outcomes
}

func (s *GPAService) processOne(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path}
	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}

	result, err := s.ProcessFile(ctx, path)
	if err != nil {
		s.logger.ErrorContext(ctx, "roster failed",
			slog.String("file", path),
			slog.String("error", err.Error()))
		outcome.Err = err
		return outcome
	}
	outcome.Result = result

	outcome.Outputs, outcome.Err = s.exportResult(ctx, result, path, outputTag(path))
	return outcome
}

func (s *GPAService) reportWarnings(ctx context.Context, warnings []gpa.Warning) {
	if len(warnings) == 0 {
		return
	}
	for _, w := range warnings {
		s.metrics.ValueWarnings.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(w.Kind))))
		s.logger.WarnContext(ctx, "roster warning",
			slog.String("kind", string(w.Kind)),
			slog.Int("row", w.Row),
			slog.String("column", w.Column),
			slog.String("value", w.Value))
	}
}

// outputTag turns "sem 5.xlsx" into "sem_5_xlsx".
func outputTag(path string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ' ', '-':
			return '_'
		}
		return r
	}, filepath.Base(path))
}
