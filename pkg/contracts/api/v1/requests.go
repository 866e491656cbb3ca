// Package api contains the request and response contracts of the analytics HTTP API.
// Version v1 represents the current stable API version.
package api

import (
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// TopNRequest limits a ranked listing
type TopNRequest struct {
	Top int `json:"top" query:"top" validate:"min=1,max=100"`
}

// ReportRequest selects the rendering of a full analysis report
type ReportRequest struct {
	Format string `json:"format" query:"format" validate:"omitempty,oneof=text json xlsx"`
}

// GenerateRequest describes a dataset generation run
type GenerateRequest struct {
	Records    int    `json:"records" validate:"min=0,max=1000000"`
	Seed       int64  `json:"seed"`
	SampleSize int    `json:"sample_size" validate:"min=0"`
	OutputDir  string `json:"output_dir" validate:"required"`
}

// KPIResponse wraps the dataset KPIs
type KPIResponse struct {
	Source string        `json:"source"`
	KPIs   domain.KPISet `json:"kpis"`
}

// CarriersResponse lists carrier statistics in ranking order
type CarriersResponse struct {
	Carriers []domain.CarrierStats    `json:"carriers"`
	Warnings []domain.AnalysisWarning `json:"warnings,omitempty"`
}

// CarrierCost is one bar of the carrier cost chart
type CarrierCost struct {
	Carrier   string  `json:"carrier"`
	TotalCost float64 `json:"total_cost"`
}

// CarrierCostsResponse feeds the dashboard cost-by-carrier chart
type CarrierCostsResponse struct {
	Carriers []CarrierCost `json:"carriers"`
}

// ProfitableRoutesResponse lists the cheapest routes per km
type ProfitableRoutesResponse struct {
	Routes []domain.ProfitableRoute `json:"routes"`
}

// RoutesResponse holds the popular and most expensive route rankings
type RoutesResponse struct {
	Popular   []domain.RouteStats `json:"popular"`
	Expensive []domain.RouteStats `json:"expensive"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Dataset string `json:"dataset"`
}
