package dataprocessing

import (
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// CalculateKPIs computes dataset-wide indicators. Cost per km averages only
// records with a positive distance, cost per kg only records with a positive
// weight; averages over an empty population are zero.
func CalculateKPIs(records []domain.ShipmentRecord) domain.KPISet {
	return foldTable(records).kpis()
}

func (p *partial) kpis() domain.KPISet {
	a := p.kpi
	kpis := domain.KPISet{
		TotalShipments:  a.count,
		TotalCost:       a.cost,
		TotalDistance:   a.distance,
		TotalWeight:     a.weight,
		AvgCostPerKm:    meanOrZero(a.cpkSum, a.cpkN),
		AvgCostPerKg:    meanOrZero(a.cpkgSum, a.cpkgN),
		AvgDistance:     meanOrZero(float64(a.distance), a.count),
		AvgWeight:       meanOrZero(float64(a.weight), a.count),
		MostCommonRoute: p.mostCommonRoute(),
	}
	return kpis
}

// mostCommonRoute picks the highest count, ties going to the route seen first
func (p *partial) mostCommonRoute() *domain.RouteCount {
	var (
		best    domain.RouteKey
		bestAcc *routeAcc
	)
	for key, acc := range p.routes {
		if bestAcc == nil || acc.count > bestAcc.count ||
			(acc.count == bestAcc.count && acc.first < bestAcc.first) {
			best, bestAcc = key, acc
		}
	}
	if bestAcc == nil {
		return nil
	}
	return &domain.RouteCount{Route: best, Shipments: bestAcc.count}
}

func meanOrZero(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
