package http

import (
	"context"

	api "github.com/burevuh-next/logistics-analyzer/pkg/contracts/api/v1"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// AnalyticsServiceInterface is the read-only dashboard view of a dataset
type AnalyticsServiceInterface interface {
	KPIs(ctx context.Context) (*api.KPIResponse, error)
	Carriers(ctx context.Context) (*api.CarriersResponse, error)
	CarrierCosts(ctx context.Context) (*api.CarrierCostsResponse, error)
	Routes(ctx context.Context, top int) (*api.RoutesResponse, error)
	ProfitableRoutes(ctx context.Context, top int) (*api.ProfitableRoutesResponse, error)
	Seasonal(ctx context.Context) (*domain.SeasonalReport, error)
	Summary(ctx context.Context) (*domain.DatasetSummary, error)
}
