package dataprocessing

import (
	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// SeasonalAnalysis breaks shipments down by month. When no record carries a
// month the report is returned with Applicable false and nothing else set.
func SeasonalAnalysis(records []domain.ShipmentRecord) domain.SeasonalReport {
	return foldTable(records).seasonal()
}

func (p *partial) seasonal() domain.SeasonalReport {
	if !p.hasMonth {
		return domain.SeasonalReport{}
	}

	report := domain.SeasonalReport{Applicable: true}
	busiest := 0
	for m := 1; m <= 12; m++ {
		acc := p.months[m]
		if acc.count == 0 {
			continue
		}
		report.Months = append(report.Months, domain.MonthStats{
			Month:       m,
			Shipments:   acc.count,
			TotalCost:   acc.cost,
			TotalWeight: acc.weight,
		})
		// strict comparison keeps the earliest month on ties
		if busiest == 0 || acc.count > p.months[busiest].count {
			busiest = m
		}
	}
	report.BusiestMonth = busiest
	return report
}
