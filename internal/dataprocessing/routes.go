package dataprocessing

import (
	"cmp"
	"slices"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// FindMostProfitableRoutes keeps, per ordered city pair, the record with the
// lowest cost per km and returns the topN cheapest routes ascending.
// Records with zero distance are skipped. topN <= 0 returns an empty list.
func FindMostProfitableRoutes(records []domain.ShipmentRecord, topN int) []domain.ProfitableRoute {
	return foldTable(records).profitableRoutes(topN)
}

func (p *partial) profitableRoutes(topN int) []domain.ProfitableRoute {
	if topN <= 0 {
		return []domain.ProfitableRoute{}
	}

	bests := make([]*cheapest, 0, len(p.routes))
	for _, acc := range p.routes {
		if acc.best != nil {
			bests = append(bests, acc.best)
		}
	}
	slices.SortFunc(bests, func(a, b *cheapest) int {
		if c := cmp.Compare(a.costPerKm, b.costPerKm); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	out := make([]domain.ProfitableRoute, 0, min(topN, len(bests)))
	for _, b := range bests[:min(topN, len(bests))] {
		out = append(out, domain.ProfitableRoute{
			Route:      b.record.Route(),
			ShipmentID: b.record.ShipmentID,
			Carrier:    b.record.Carrier,
			CostRub:    b.record.CostRub,
			DistanceKm: b.record.DistanceKm,
			CostPerKm:  b.costPerKm,
		})
	}
	return out
}

// RouteReport holds per-route statistics in first-encounter order
type RouteReport struct {
	routes []domain.RouteStats
}

// RouteAnalysis groups records by ordered city pair
func RouteAnalysis(records []domain.ShipmentRecord) *RouteReport {
	return foldTable(records).routeReport()
}

func (p *partial) routeReport() *RouteReport {
	type entry struct {
		first int
		stats domain.RouteStats
	}
	entries := make([]entry, 0, len(p.routes))
	for key, acc := range p.routes {
		entries = append(entries, entry{
			first: acc.first,
			stats: domain.RouteStats{
				Route:        key,
				Shipments:    acc.count,
				TotalCost:    acc.cost,
				AvgCost:      acc.cost / float64(acc.count),
				AvgDistance:  float64(acc.distance) / float64(acc.count),
				AvgCostPerKm: domain.NewRatio(acc.cpkSum, float64(acc.cpkN)),
			},
		})
	}
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.first, b.first) })

	report := &RouteReport{routes: make([]domain.RouteStats, len(entries))}
	for i, e := range entries {
		report.routes[i] = e.stats
	}
	return report
}

// Len returns the number of distinct routes
func (r *RouteReport) Len() int {
	return len(r.routes)
}

// Routes returns a copy of all route statistics in first-encounter order
func (r *RouteReport) Routes() []domain.RouteStats {
	return slices.Clone(r.routes)
}

// Get returns the statistics of one route
func (r *RouteReport) Get(route domain.RouteKey) (domain.RouteStats, bool) {
	for _, s := range r.routes {
		if s.Route == route {
			return s, true
		}
	}
	return domain.RouteStats{}, false
}

// TopByCount returns the k busiest routes. Ties keep first-encounter order.
func (r *RouteReport) TopByCount(k int) []domain.RouteStats {
	return r.top(k, func(a, b domain.RouteStats) int {
		return cmp.Compare(b.Shipments, a.Shipments)
	})
}

// TopByCostPerKm returns the k routes with the highest mean cost per km.
// Routes without a defined cost per km come last.
func (r *RouteReport) TopByCostPerKm(k int) []domain.RouteStats {
	return r.top(k, func(a, b domain.RouteStats) int {
		x, y := a.AvgCostPerKm, b.AvgCostPerKm
		switch {
		case x.Defined != y.Defined:
			if x.Defined {
				return -1
			}
			return 1
		case !x.Defined:
			return 0
		}
		return cmp.Compare(y.Value, x.Value)
	})
}

func (r *RouteReport) top(k int, order func(a, b domain.RouteStats) int) []domain.RouteStats {
	if k <= 0 {
		return []domain.RouteStats{}
	}
	ranked := slices.Clone(r.routes)
	slices.SortStableFunc(ranked, order)
	return ranked[:min(k, len(ranked))]
}
