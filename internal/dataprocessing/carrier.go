package dataprocessing

import (
	"cmp"
	"slices"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// Carrier metric names used in undefined-ratio warnings
const (
	MetricAvgCostPerKm = "avg_cost_per_km"
	MetricAvgCostPerKg = "avg_cost_per_kg"
	MetricEfficiency   = "efficiency"
)

// CarrierAnalysis is the per-carrier breakdown of a table
type CarrierAnalysis struct {
	Stats map[string]domain.CarrierStats
	// Warnings lists every ratio left undefined by a zero denominator,
	// ordered by carrier first appearance
	Warnings []domain.AnalysisWarning
}

// AnalyzeByCarrier groups records by carrier. A carrier whose total distance
// or weight is zero gets an undefined ratio and a warning; the remaining
// carriers are unaffected.
func AnalyzeByCarrier(records []domain.ShipmentRecord) CarrierAnalysis {
	return foldTable(records).carrierAnalysis()
}

func (p *partial) carrierAnalysis() CarrierAnalysis {
	out := CarrierAnalysis{Stats: make(map[string]domain.CarrierStats, len(p.carriers))}

	names := make([]string, 0, len(p.carriers))
	for name := range p.carriers {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Compare(p.carriers[a].first, p.carriers[b].first)
	})

	for _, name := range names {
		acc := p.carriers[name]
		stats := domain.CarrierStats{
			Carrier:       name,
			Shipments:     acc.count,
			TotalCost:     acc.cost,
			TotalDistance: acc.distance,
			TotalWeight:   acc.weight,
			AvgCost:       acc.cost / float64(acc.count),
			MedianCost:    median(acc.costs),
			AvgDistance:   float64(acc.distance) / float64(acc.count),
			AvgWeight:     float64(acc.weight) / float64(acc.count),
			AvgCostPerKm:  domain.NewRatio(acc.cost, float64(acc.distance)),
			AvgCostPerKg:  domain.NewRatio(acc.cost, float64(acc.weight)),
			Efficiency:    domain.NewRatio(acc.cpkSum, float64(acc.cpkN)),
		}
		out.Stats[name] = stats

		for _, r := range []struct {
			metric string
			ratio  domain.Ratio
		}{
			{MetricAvgCostPerKm, stats.AvgCostPerKm},
			{MetricAvgCostPerKg, stats.AvgCostPerKg},
			{MetricEfficiency, stats.Efficiency},
		} {
			if !r.ratio.Defined {
				out.Warnings = append(out.Warnings, undefinedWarning(name, r.metric))
			}
		}
	}
	return out
}

func undefinedWarning(group, metric string) domain.AnalysisWarning {
	err := apperrors.NewDivisionUndefinedError(group, metric)
	return domain.AnalysisWarning{Group: group, Metric: metric, Message: err.Message}
}

// RankCarriers orders carriers by shipment count descending, then name ascending
func RankCarriers(stats map[string]domain.CarrierStats) []domain.CarrierStats {
	ranked := carrierSlice(stats)
	slices.SortFunc(ranked, func(a, b domain.CarrierStats) int {
		if c := cmp.Compare(b.Shipments, a.Shipments); c != 0 {
			return c
		}
		return cmp.Compare(a.Carrier, b.Carrier)
	})
	return ranked
}

// RankCarrierEfficiency orders carriers by mean cost per km ascending.
// Carriers without a defined efficiency sort last; ties go by name.
func RankCarrierEfficiency(stats map[string]domain.CarrierStats) []domain.CarrierStats {
	ranked := carrierSlice(stats)
	slices.SortFunc(ranked, func(a, b domain.CarrierStats) int {
		switch {
		case a.Efficiency.Less(b.Efficiency):
			return -1
		case b.Efficiency.Less(a.Efficiency):
			return 1
		}
		return cmp.Compare(a.Carrier, b.Carrier)
	})
	return ranked
}

// RankCarrierCosts orders carriers by total cost descending, then name ascending
func RankCarrierCosts(stats map[string]domain.CarrierStats) []domain.CarrierStats {
	ranked := carrierSlice(stats)
	slices.SortFunc(ranked, func(a, b domain.CarrierStats) int {
		if c := cmp.Compare(b.TotalCost, a.TotalCost); c != 0 {
			return c
		}
		return cmp.Compare(a.Carrier, b.Carrier)
	})
	return ranked
}

func carrierSlice(stats map[string]domain.CarrierStats) []domain.CarrierStats {
	out := make([]domain.CarrierStats, 0, len(stats))
	for _, s := range stats {
		out = append(out, s)
	}
	return out
}

// median returns the middle value of xs without reordering it
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
