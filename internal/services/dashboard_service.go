package services

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/burevuh-next/logistics-analyzer/internal/dataprocessing"
	"github.com/burevuh-next/logistics-analyzer/internal/dataset"
	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	api "github.com/burevuh-next/logistics-analyzer/pkg/contracts/api/v1"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// snapshot is one analysed version of the dataset file
type snapshot struct {
	modTime  time.Time
	size     int64
	loadedAt time.Time
	table    *dataprocessing.Table
	report   *domain.AnalysisReport
	carriers dataprocessing.CarrierAnalysis
	routes   *dataprocessing.RouteReport
	summary  domain.DatasetSummary
}

// DashboardService serves read-only views of a dataset file. The file is
// analysed on first use and again whenever its size or modification time
// changes; concurrent reloads are collapsed into one.
type DashboardService struct {
	analytics *AnalyticsService
	path      string

	mu      sync.RWMutex
	current *snapshot
	group   singleflight.Group

	logger *slog.Logger
}

// NewDashboardService creates a dashboard over the table at datasetPath
func NewDashboardService(analytics *AnalyticsService, datasetPath string, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		analytics: analytics,
		path:      datasetPath,
		logger:    logger.With(slog.String("component", "dashboard_service")),
	}
}

// DatasetPath returns the served file
func (s *DashboardService) DatasetPath() string {
	return s.path
}

// Loaded reports whether a snapshot is cached
func (s *DashboardService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

func (s *DashboardService) snapshot(ctx context.Context) (*snapshot, error) {
	if s.path == "" {
		return nil, apperrors.NewConfigError("dataset path is empty", ErrNoDatasetConfigured)
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, apperrors.NewInputNotFoundError(s.path, err)
	}

	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()
	if cur != nil && cur.modTime.Equal(info.ModTime()) && cur.size == info.Size() {
		return cur, nil
	}

	v, err, _ := s.group.Do(s.path, func() (interface{}, error) {
		return s.reload(context.WithoutCancel(ctx), info)
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

func (s *DashboardService) reload(ctx context.Context, info os.FileInfo) (*snapshot, error) {
	report, table, err := s.analytics.LoadAndAnalyze(ctx, s.path)
	if err != nil {
		return nil, err
	}
	carriers, err := s.analytics.Analyzer().CarrierBreakdown(ctx, table.Records)
	if err != nil {
		return nil, err
	}
	routes, err := s.analytics.Analyzer().Routes(ctx, table.Records)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		modTime:  info.ModTime(),
		size:     info.Size(),
		loadedAt: time.Now(),
		table:    table,
		report:   report,
		carriers: carriers,
		routes:   routes,
		summary:  dataset.Summarize(table.Records),
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset snapshot refreshed",
		slog.String("path", s.path),
		slog.Int("records", len(table.Records)),
		slog.Time("mod_time", snap.modTime))
	return snap, nil
}

// KPIs returns the dataset-wide indicators
func (s *DashboardService) KPIs(ctx context.Context) (*api.KPIResponse, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &api.KPIResponse{Source: snap.table.Source, KPIs: snap.report.KPIs}, nil
}

// Carriers returns carrier statistics ranked by shipment count
func (s *DashboardService) Carriers(ctx context.Context) (*api.CarriersResponse, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &api.CarriersResponse{
		Carriers: dataprocessing.RankCarriers(snap.carriers.Stats),
		Warnings: snap.carriers.Warnings,
	}, nil
}

// CarrierCosts returns total cost per carrier, highest first
func (s *DashboardService) CarrierCosts(ctx context.Context) (*api.CarrierCostsResponse, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	ranked := dataprocessing.RankCarrierCosts(snap.carriers.Stats)
	out := &api.CarrierCostsResponse{Carriers: make([]api.CarrierCost, len(ranked))}
	for i, c := range ranked {
		out.Carriers[i] = api.CarrierCost{Carrier: c.Carrier, TotalCost: c.TotalCost}
	}
	return out, nil
}

// Routes returns the top busiest and most expensive per km routes
func (s *DashboardService) Routes(ctx context.Context, top int) (*api.RoutesResponse, error) {
	if top <= 0 {
		return nil, apperrors.NewAppValidationError(ErrInvalidTopN.Error())
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &api.RoutesResponse{
		Popular:   snap.routes.TopByCount(top),
		Expensive: snap.routes.TopByCostPerKm(top),
	}, nil
}

// ProfitableRoutes returns the top cheapest routes per km
func (s *DashboardService) ProfitableRoutes(ctx context.Context, top int) (*api.ProfitableRoutesResponse, error) {
	if top <= 0 {
		return nil, apperrors.NewAppValidationError(ErrInvalidTopN.Error())
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &api.ProfitableRoutesResponse{
		Routes: dataprocessing.FindMostProfitableRoutes(snap.table.Records, top),
	}, nil
}

// Seasonal returns the per-month breakdown
func (s *DashboardService) Seasonal(ctx context.Context) (*domain.SeasonalReport, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	seasonal := snap.report.Seasonal
	return &seasonal, nil
}

// Summary returns the dataset summary
func (s *DashboardService) Summary(ctx context.Context) (*domain.DatasetSummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	summary := snap.summary
	return &summary, nil
}
