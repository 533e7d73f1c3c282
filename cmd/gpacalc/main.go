// Command gpacalc computes per-semester SGPA and overall CGPA for every
// student in a grade roster and writes the summary workbook.
//
// Usage:
//
//	gpacalc -file roster.xlsx [-out dir] [-csv] [-no-table]
//	gpacalc -dir rosters/ [-out dir] [-csv] [-no-table]
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
	"syscall"

	"gpacalc/internal/config"
	"gpacalc/internal/display"
	apperrors "gpacalc/internal/errors"
	"gpacalc/internal/files"
	"gpacalc/internal/infrastructure"
	"gpacalc/internal/services"
	"gpacalc/pkg/contracts"
)

type options struct {
	file       string
	dir        string
	outDir     string
	idColumn   string
	configFile string
	csv        bool
	noTable    bool
	version    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("gpacalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.file, "file", "", "roster file (.xlsx, .xlsm or .csv)")
	fs.StringVar(&opts.dir, "dir", "", "directory of roster files to process as a batch")
	fs.StringVar(&opts.outDir, "out", "", "output directory (defaults to the roster's directory)")
	fs.StringVar(&opts.idColumn, "id-column", "", "student id column header")
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	fs.BoolVar(&opts.csv, "csv", false, "also write a CSV summary")
	fs.BoolVar(&opts.noTable, "no-table", false, "do not print the summary table")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.version {
		return opts, nil
	}
	if fs.NArg() == 1 && opts.file == "" && opts.dir == "" {
		opts.file = fs.Arg(0)
	}
	if (opts.file == "") == (opts.dir == "") {
		fs.Usage()
		return nil, errors.New("exactly one of -file or -dir is required")
	}
	return opts, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}
	if opts.outDir != "" {
		cfg.Export.OutputDir = opts.outDir
	}
	if opts.idColumn != "" {
		cfg.Roster.StudentIDColumn = opts.idColumn
	}
	if opts.csv {
		cfg.Export.WriteCSV = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid command line options", err)
	}
	return cfg, nil
}

// run executes the command and returns the process exit code. Results go to
// stdout and errors to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	errs := display.NewTableRenderer(stderr, config.Default().Roster.Precision)

	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		errs.RenderError(err)
		return 1
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		errs.RenderError(err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		errs.RenderError(apperrors.NewConfigError("failed to initialize logging", err))
		return 1
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureTraceID(ctx)
	logger.DebugContext(ctx, "gpacalc starting", slog.String("version", contracts.Version))

	svc := services.NewGPAService(cfg, nil, nil, logger)
	c := &cli{
		svc:      svc,
		renderer: display.NewTableRenderer(stdout, cfg.Roster.Precision),
		errs:     errs,
		noTable:  opts.noTable,
		logger:   logger,
	}

	if opts.file != "" {
		return c.runFile(ctx, opts.file)
	}
	return c.runDir(ctx, opts.dir)
}

type cli struct {
	svc      *services.GPAService
	renderer *display.TableRenderer
	errs     *display.TableRenderer
	logger   *slog.Logger
	noTable  bool
}

func (c *cli) runFile(ctx context.Context, path string) int {
	result, err := c.svc.ProcessFile(ctx, path)
	if err != nil {
		c.errs.RenderError(err)
		return 1
	}

	outputs, err := c.svc.ExportResult(ctx, result, path)
	if err != nil {
		c.errs.RenderError(err)
		return 1
	}

	c.show(result, outputs)
	return 0
}

func (c *cli) runDir(ctx context.Context, dir string) int {
	found, err := files.NewDiscovery("").FindRosterFiles(dir)
	if err != nil {
		c.errs.RenderError(err)
		return 1
	}
	if len(found) == 0 {
		c.errs.RenderError(fmt.Errorf("no roster files (.xlsx, .xlsm, .csv) found in %s", dir))
		return 1
	}

	code := 0
	for _, outcome := range c.svc.ProcessBatch(ctx, files.Paths(found)) {
		c.renderer.RenderHeading(filepath.Base(outcome.Path))
		if outcome.Err != nil {
			c.errs.RenderError(outcome.Err)
			code = 1
			continue
		}
		c.show(outcome.Result, outcome.Outputs)
	}
	return code
}

func (c *cli) show(result *services.Result, outputs []string) {
	c.renderer.RenderWarnings(result.Warnings)
	if !c.noTable {
		c.renderer.Render(result.Rows, result.Schema.IDColumn())
	}
	c.renderer.RenderSaved(outputs...)
}
