package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/burevuh-next/logistics-analyzer/internal/config"
	"github.com/burevuh-next/logistics-analyzer/internal/dataprocessing"
	"github.com/burevuh-next/logistics-analyzer/internal/infrastructure"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// AnalyticsService loads shipment tables and runs the aggregation engine on them
type AnalyticsService struct {
	loader    *dataprocessing.Loader
	analyzer  *dataprocessing.Analyzer
	telemetry Telemetry
	logger    *slog.Logger
}

// AnalyzerConfigFrom maps the analysis settings onto the engine configuration
func AnalyzerConfigFrom(cfg config.AnalysisConfig) dataprocessing.AnalyzerConfig {
	return dataprocessing.AnalyzerConfig{
		Workers:       cfg.Workers,
		TopProfitable: cfg.TopProfitable,
		TopPopular:    cfg.TopPopular,
		TopExpensive:  cfg.TopExpensive,
		TopEfficient:  cfg.TopEfficient,
	}
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(cfg config.AnalysisConfig, telemetry Telemetry, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		loader:    dataprocessing.NewLoader(dataprocessing.LoaderConfig{DeriveMonth: cfg.DeriveMonth}, logger),
		analyzer:  dataprocessing.NewAnalyzer(AnalyzerConfigFrom(cfg), logger),
		telemetry: telemetry.orNoop(),
		logger:    logger.With(slog.String("component", "analytics_service")),
	}
}

// Analyzer exposes the underlying engine
func (s *AnalyticsService) Analyzer() *dataprocessing.Analyzer {
	return s.analyzer
}

// Load reads the table at path
func (s *AnalyticsService) Load(ctx context.Context, path string) (table *dataprocessing.Table, err error) {
	ctx, span := s.telemetry.Tracer.Start(ctx, "analytics.load",
		trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	start := time.Now()
	defer func() {
		infrastructure.RecordOperation(ctx, s.telemetry.Metrics.AnalysisDuration, s.telemetry.Metrics.Errors,
			"load", time.Since(start), err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
	}()

	table, err = s.loader.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	s.telemetry.Metrics.RecordsLoaded.Add(ctx, int64(len(table.Records)))
	span.SetAttributes(attribute.Int("records", len(table.Records)))
	return table, nil
}

// Analyze runs the full analysis over a loaded table
func (s *AnalyticsService) Analyze(ctx context.Context, table *dataprocessing.Table) (report *domain.AnalysisReport, err error) {
	ctx, span := s.telemetry.Tracer.Start(ctx, "analytics.analyze",
		trace.WithAttributes(attribute.Int("records", len(table.Records))))
	defer span.End()

	start := time.Now()
	defer func() {
		infrastructure.RecordOperation(ctx, s.telemetry.Metrics.AnalysisDuration, s.telemetry.Metrics.Errors,
			"analyze", time.Since(start), err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
	}()

	report, err = s.analyzer.Analyze(ctx, table.Records, table.Source)
	if err != nil {
		return nil, err
	}
	for _, w := range report.Warnings {
		s.telemetry.Metrics.UndefinedRatios.Add(ctx, 1, metric.WithAttributes(
			attribute.String("metric", w.Metric)))
	}
	return report, nil
}

// LoadAndAnalyze loads the table at path and analyzes it
func (s *AnalyticsService) LoadAndAnalyze(ctx context.Context, path string) (*domain.AnalysisReport, *dataprocessing.Table, error) {
	table, err := s.Load(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	report, err := s.Analyze(ctx, table)
	if err != nil {
		return nil, nil, err
	}
	return report, table, nil
}

// Describe returns column statistics of the table at path
func (s *AnalyticsService) Describe(ctx context.Context, path string) ([]domain.ColumnStats, error) {
	table, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	_, span := s.telemetry.Tracer.Start(ctx, "analytics.describe")
	defer span.End()

	stats := dataprocessing.Describe(table.Records)
	s.logger.InfoContext(ctx, "table described",
		slog.String("path", path),
		slog.Int("records", len(table.Records)),
		slog.Int("columns", len(stats)))
	return stats, nil
}
