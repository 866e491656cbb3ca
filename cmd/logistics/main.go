// Command logistics generates synthetic shipment datasets and analyses them.
//
// Usage:
//
//	logistics generate [-records n] [-seed n] [-sample n] [-o dir]
//	logistics analyze <input> [-o stats.csv]
//	logistics report <input> [-format text|json|xlsx] [-o file]
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
	"syscall"

	"github.com/go-playground/validator/v10"

	"github.com/burevuh-next/logistics-analyzer/internal/config"
	"github.com/burevuh-next/logistics-analyzer/internal/dataprocessing"
	"github.com/burevuh-next/logistics-analyzer/internal/exporter"
	"github.com/burevuh-next/logistics-analyzer/internal/generator"
	"github.com/burevuh-next/logistics-analyzer/internal/infrastructure"
	"github.com/burevuh-next/logistics-analyzer/internal/middleware"
	"github.com/burevuh-next/logistics-analyzer/internal/services"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts"
	api "github.com/burevuh-next/logistics-analyzer/pkg/contracts/api/v1"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

const usage = `usage: logistics <command> [arguments]

commands:
  generate                 build the synthetic dataset, its sample and statistics
  analyze <input>          print column statistics and write the KPI reports
  report <input>           write the full analysis report as text, json or xlsx
  version                  print version information
`

var errUsage = errors.New("invalid usage")

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}

	paths, err := config.ResolvePaths(cfg.Paths, "")
	if err != nil {
		logger.Error("failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// no scrape endpoint in a batch run
	otelCfg := infrastructure.OTelConfigFromTelemetry(cfg.Telemetry)
	otelCfg.MetricExporter = "none"
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		logger.Error("failed to initialize OpenTelemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	telemetry, err := services.NewTelemetry(providers)
	if err != nil {
		logger.Error("failed to create business metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = infrastructure.EnsureTraceID(ctx)
	c := &cli{
		cfg:       cfg,
		paths:     paths,
		telemetry: telemetry,
		validate:  middleware.NewStructValidator(),
		stdout:    os.Stdout,
		logger:    logger,
	}
	err = c.run(ctx, os.Args[1:])
	stop()
	_ = providers.Shutdown(context.Background())

	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		logger.ErrorContext(ctx, "command failed", slog.String("error", err.Error()))
		_ = infrastructure.CloseLogFile()
		os.Exit(1)
	}
	_ = infrastructure.CloseLogFile()
}

type cli struct {
	cfg       *config.Config
	paths     *config.Paths
	telemetry services.Telemetry
	validate  *validator.Validate
	stdout    io.Writer
	logger    *slog.Logger
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "generate":
		return c.generate(ctx, rest)
	case "analyze":
		return c.analyze(ctx, rest)
	case "report":
		return c.report(ctx, rest)
	case "version":
		info := contracts.GetVersionInfo()
		fmt.Fprintln(c.stdout, contracts.GetVersionString())
		fmt.Fprintf(c.stdout, "  build: %s (%s)\n  go:    %s\n", info.BuildTime, info.GitCommit, info.GoVersion)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// parseArgs parses flags that may appear before or after positional arguments
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (c *cli) generate(ctx context.Context, args []string) error {
	gc := c.cfg.Generation
	fs := newFlagSet("generate")
	records := fs.Int("records", gc.Records, "number of shipments to generate")
	seed := fs.Int64("seed", gc.Seed, "random seed (0 = time based)")
	sample := fs.Int("sample", gc.SampleSize, "sample size")
	out := fs.String("o", c.paths.DataDir, "output directory")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	req := api.GenerateRequest{Records: *records, Seed: *seed, SampleSize: *sample, OutputDir: *out}
	if err := middleware.ValidateStruct(c.validate, req); err != nil {
		return err
	}
	if err := c.paths.EnsureDirectories(); err != nil {
		return err
	}

	tables, err := c.referenceTables()
	if err != nil {
		return err
	}
	gen, err := generator.New(tables, c.logger)
	if err != nil {
		return err
	}

	svc := services.NewDatasetService(gen, gc, c.paths, c.telemetry, c.logger)
	result, err := svc.Generate(ctx, services.GenerateOptions{
		Records:    req.Records,
		Seed:       req.Seed,
		SampleSize: req.SampleSize,
		OutputDir:  req.OutputDir,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "Generated %d shipments (seed %d)\n", result.Records, result.Seed)
	fmt.Fprintf(c.stdout, "  full:   %s\n  sample: %s\n  stats:  %s\n",
		result.FullPath, result.SamplePath, result.StatsPath)
	return nil
}

// referenceTables reads the configured reference file, falling back to the
// built-in tables when none is configured or present.
func (c *cli) referenceTables() (domain.ReferenceTables, error) {
	if c.paths.ReferenceFile == "" || !config.FileExists(c.paths.ReferenceFile) {
		return generator.DefaultReferenceTables(), nil
	}
	c.logger.Info("loading reference tables", slog.String("path", c.paths.ReferenceFile))
	return generator.LoadReferenceTables(c.paths.ReferenceFile)
}

func (c *cli) analyze(ctx context.Context, args []string) error {
	fs := newFlagSet("analyze")
	out := fs.String("o", "", "write column statistics as CSV to this file")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: analyze takes exactly one input file", errUsage)
	}

	analytics := services.NewAnalyticsService(c.cfg.Analysis, c.telemetry, c.logger)
	table, err := analytics.Load(ctx, positional[0])
	if err != nil {
		return err
	}
	report, err := analytics.Analyze(ctx, table)
	if err != nil {
		return err
	}

	if err := c.paths.EnsureDirectories(); err != nil {
		return err
	}

	stats := dataprocessing.Describe(table.Records)
	kpiPath := c.paths.GetReportPath(c.cfg.Analysis.KPIReportFile)
	extPath := c.paths.GetReportPath(c.cfg.Analysis.ExtendedReportFile)
	outputs := []output{
		{path: kpiPath, write: func(path string) error {
			return exporter.WriteFileAtomic(path, func(w io.Writer) error {
				return exporter.WriteKPIReport(w, report.KPIs)
			})
		}},
		{path: extPath, write: func(path string) error {
			return exporter.WriteFileAtomic(path, func(w io.Writer) error {
				return exporter.WriteExtendedReport(w, report)
			})
		}},
	}
	if *out != "" {
		outputs = append(outputs, output{path: *out, write: func(path string) error {
			return exporter.NewShipmentExporter(c.logger).WriteColumnStats(path, stats)
		}})
	}
	if err := c.writeAll(ctx, outputs); err != nil {
		return err
	}
	if *out == "" {
		if err := exporter.WriteColumnStatsText(c.stdout, stats); err != nil {
			return err
		}
	}

	c.logger.InfoContext(ctx, "analysis written",
		slog.String("kpi_report", kpiPath),
		slog.String("extended_report", extPath),
		slog.Int("warnings", len(report.Warnings)))
	return nil
}

func (c *cli) report(ctx context.Context, args []string) error {
	fs := newFlagSet("report")
	format := fs.String("format", "text", "output format: text, json or xlsx")
	out := fs.String("o", "", "output file (defaults to the reports directory)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: report takes exactly one input file", errUsage)
	}

	req := api.ReportRequest{Format: strings.ToLower(*format)}
	if err := middleware.ValidateStruct(c.validate, req); err != nil {
		return err
	}

	// fail on bad input before anything is written
	analytics := services.NewAnalyticsService(c.cfg.Analysis, c.telemetry, c.logger)
	report, table, err := analytics.LoadAndAnalyze(ctx, positional[0])
	if err != nil {
		return err
	}

	if err := c.paths.EnsureDirectories(); err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = c.paths.GetReportPath("analysis_report." + reportExt(req.Format))
	}

	switch req.Format {
	case "json":
		err = exporter.SaveJSON(path, report)
	case "xlsx":
		err = exporter.NewXLSXWriter(c.logger).SaveReport(path, report, table.Records)
	default:
		err = exporter.WriteFileAtomic(path, func(w io.Writer) error {
			return exporter.WriteExtendedReport(w, report)
		})
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "Report written to %s\n", filepath.Clean(path))
	return nil
}

// output is one file of a run, written atomically by write
type output struct {
	path  string
	write func(path string) error
}

// writeAll writes every output in order. When one fails, the outputs already
// written by this call are removed so a run leaves all of its files or none.
func (c *cli) writeAll(ctx context.Context, outputs []output) (err error) {
	var written []string
	defer func() {
		if err == nil {
			return
		}
		for _, path := range written {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				c.logger.WarnContext(ctx, "failed to remove partial output",
					slog.String("path", path),
					slog.String("error", rmErr.Error()))
			}
		}
	}()

	for _, o := range outputs {
		if err = o.write(o.path); err != nil {
			return err
		}
		written = append(written, o.path)
	}
	return nil
}

func reportExt(format string) string {
	switch format {
	case "json", "xlsx":
		return format
	}
	return "txt"
}
