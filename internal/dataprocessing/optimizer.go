package dataprocessing

import (
	"context"
	"errors"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// ErrOptimizerNotConfigured is returned when route optimization is requested
// from an Analyzer without a RouteOptimizer
var ErrOptimizerNotConfigured = errors.New("route optimizer not configured")

// RouteSuggestion is one recommendation produced by a RouteOptimizer
type RouteSuggestion struct {
	Route             domain.RouteKey `json:"route"`
	Carrier           string          `json:"carrier"`
	ExpectedCostPerKm float64         `json:"expected_cost_per_km"`
	Reason            string          `json:"reason,omitempty"`
}

// RouteOptimizer proposes cheaper carrier assignments for observed routes.
// No implementation ships with the analyzer.
type RouteOptimizer interface {
	Optimize(ctx context.Context, records []domain.ShipmentRecord) ([]RouteSuggestion, error)
}
