package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// AnalyzerConfig holds the ranking sizes and fold parallelism of an Analyzer
type AnalyzerConfig struct {
	Workers       int
	TopProfitable int
	TopPopular    int
	TopExpensive  int
	TopEfficient  int
}

// DefaultAnalyzerConfig returns the default analyzer configuration
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Workers:       4,
		TopProfitable: 3,
		TopPopular:    10,
		TopExpensive:  5,
		TopEfficient:  5,
	}
}

// Analyzer derives every report view from a shipment table in one pass
type Analyzer struct {
	config    AnalyzerConfig
	logger    *slog.Logger
	optimizer RouteOptimizer
	now       func() time.Time
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(config AnalyzerConfig, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Analyzer{
		config: config,
		logger: logger.With(slog.String("component", "analyzer")),
		now:    time.Now,
	}
}

// WithOptimizer installs a route optimizer
func (a *Analyzer) WithOptimizer(o RouteOptimizer) *Analyzer {
	a.optimizer = o
	return a
}

// Analyze folds records once and builds the full report.
// Undefined per-carrier ratios are logged and listed in the report warnings.
func (a *Analyzer) Analyze(ctx context.Context, records []domain.ShipmentRecord, source string) (*domain.AnalysisReport, error) {
	start := time.Now()
	p, err := foldParallel(ctx, records, a.config.Workers)
	if err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	carriers := p.carrierAnalysis()
	routes := p.routeReport()

	report := &domain.AnalysisReport{
		Source:            source,
		GeneratedAt:       a.now().UTC(),
		KPIs:              p.kpis(),
		Carriers:          RankCarriers(carriers.Stats),
		EfficientCarriers: topCarriers(RankCarrierEfficiency(carriers.Stats), a.config.TopEfficient),
		ProfitableRoutes:  p.profitableRoutes(a.config.TopProfitable),
		PopularRoutes:     routes.TopByCount(a.config.TopPopular),
		ExpensiveRoutes:   routes.TopByCostPerKm(a.config.TopExpensive),
		Seasonal:          p.seasonal(),
		Warnings:          carriers.Warnings,
	}

	for _, w := range report.Warnings {
		a.logger.WarnContext(ctx, "ratio undefined",
			slog.String("group", w.Group),
			slog.String("metric", w.Metric))
	}
	a.logger.InfoContext(ctx, "analysis complete",
		slog.String("source", source),
		slog.Int("records", len(records)),
		slog.Int("carriers", len(report.Carriers)),
		slog.Int("routes", routes.Len()),
		slog.Int("warnings", len(report.Warnings)),
		slog.Duration("duration", time.Since(start)))
	return report, nil
}

// CarrierBreakdown returns per-carrier statistics using the configured parallelism
func (a *Analyzer) CarrierBreakdown(ctx context.Context, records []domain.ShipmentRecord) (CarrierAnalysis, error) {
	p, err := foldParallel(ctx, records, a.config.Workers)
	if err != nil {
		return CarrierAnalysis{}, err
	}
	return p.carrierAnalysis(), nil
}

// Routes returns the per-route report using the configured parallelism
func (a *Analyzer) Routes(ctx context.Context, records []domain.ShipmentRecord) (*RouteReport, error) {
	p, err := foldParallel(ctx, records, a.config.Workers)
	if err != nil {
		return nil, err
	}
	return p.routeReport(), nil
}

// OptimizeRoutes delegates to the installed RouteOptimizer
func (a *Analyzer) OptimizeRoutes(ctx context.Context, records []domain.ShipmentRecord) ([]RouteSuggestion, error) {
	if a.optimizer == nil {
		return nil, ErrOptimizerNotConfigured
	}
	return a.optimizer.Optimize(ctx, records)
}

func topCarriers(ranked []domain.CarrierStats, k int) []domain.CarrierStats {
	if k <= 0 {
		return []domain.CarrierStats{}
	}
	return ranked[:min(k, len(ranked))]
}
