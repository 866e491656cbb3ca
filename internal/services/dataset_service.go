package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/burevuh-next/logistics-analyzer/internal/config"
	"github.com/burevuh-next/logistics-analyzer/internal/dataset"
	"github.com/burevuh-next/logistics-analyzer/internal/exporter"
	"github.com/burevuh-next/logistics-analyzer/internal/generator"
	"github.com/burevuh-next/logistics-analyzer/internal/infrastructure"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// GenerateOptions overrides the configured generation parameters of one run
type GenerateOptions struct {
	Records    int
	Seed       int64
	SampleSize int
	// OutputDir replaces the configured data directory when set
	OutputDir string
}

// GenerateResult describes the files produced by a generation run
type GenerateResult struct {
	Seed       int64
	Records    int
	FullPath   string
	SamplePath string
	StatsPath  string
	Summary    domain.DatasetSummary
}

// DatasetService generates synthetic shipment tables and writes them out
type DatasetService struct {
	builder   *dataset.Builder
	exporter  *exporter.ShipmentExporter
	config    config.GenerationConfig
	paths     *config.Paths
	telemetry Telemetry
	logger    *slog.Logger
}

// NewDatasetService creates a dataset service around gen
func NewDatasetService(gen *generator.Generator, cfg config.GenerationConfig, paths *config.Paths, telemetry Telemetry, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		builder:   dataset.NewBuilder(gen, dataset.BuilderConfig{Workers: cfg.Workers}, logger),
		exporter:  exporter.NewShipmentExporter(logger),
		config:    cfg,
		paths:     paths,
		telemetry: telemetry.orNoop(),
		logger:    logger.With(slog.String("component", "dataset_service")),
	}
}

// DefaultGenerateOptions returns the configured run parameters
func (s *DatasetService) DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Records:    s.config.Records,
		Seed:       s.config.Seed,
		SampleSize: s.config.SampleSize,
	}
}

// Generate builds a table and writes the full CSV, the sample CSV and the
// statistics text. Either all three files are written or none is.
func (s *DatasetService) Generate(ctx context.Context, opts GenerateOptions) (result *GenerateResult, err error) {
	ctx, span := s.telemetry.Tracer.Start(ctx, "dataset.generate",
		trace.WithAttributes(attribute.Int("records", opts.Records)))
	defer span.End()

	start := time.Now()
	defer func() {
		infrastructure.RecordOperation(ctx, s.telemetry.Metrics.GenerationDuration, s.telemetry.Metrics.Errors,
			"generate", time.Since(start), err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
	}()

	ds, err := s.builder.Build(ctx, opts.Records, opts.Seed)
	if err != nil {
		return nil, err
	}
	s.telemetry.Metrics.ShipmentsGenerated.Add(ctx, int64(ds.Len()))
	span.SetAttributes(attribute.Int64("seed", ds.Seed))

	sample := dataset.Sample(ds.Records, opts.SampleSize, s.config.SampleSeed)
	summary := dataset.Summarize(ds.Records)

	dataDir := s.paths.DataDir
	if opts.OutputDir != "" {
		dataDir = opts.OutputDir
	}
	dirPaths := &config.Paths{DataDir: dataDir}
	result = &GenerateResult{
		Seed:       ds.Seed,
		Records:    ds.Len(),
		FullPath:   dirPaths.GetDataPath(s.config.FullFile),
		SamplePath: dirPaths.GetDataPath(s.config.SampleFile),
		StatsPath:  dirPaths.GetDataPath(s.config.StatsFile),
		Summary:    summary,
	}

	var written []string
	defer func() {
		if err == nil {
			return
		}
		for _, path := range written {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				s.logger.WarnContext(ctx, "failed to remove partial output",
					slog.String("path", path),
					slog.String("error", rmErr.Error()))
			}
		}
	}()

	if err = s.exporter.WriteShipments(result.FullPath, ds.Records); err != nil {
		return nil, err
	}
	written = append(written, result.FullPath)

	if err = s.exporter.WriteShipments(result.SamplePath, sample); err != nil {
		return nil, err
	}
	written = append(written, result.SamplePath)

	if err = exporter.WriteFileAtomic(result.StatsPath, func(w io.Writer) error {
		return exporter.WriteDatasetStatistics(w, summary, ds.Seed)
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "dataset generated",
		slog.Int64("seed", ds.Seed),
		slog.Int("records", ds.Len()),
		slog.Int("sample", len(sample)),
		slog.String("full_path", result.FullPath),
		slog.String("sample_path", result.SamplePath),
		slog.String("stats_path", result.StatsPath),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}
