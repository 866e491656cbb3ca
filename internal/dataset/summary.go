package dataset

import (
	"sort"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// TopListSize is the length of the top origin city and carrier lists
const TopListSize = 5

// Summarize derives the dataset statistics purely from the table
func Summarize(records []domain.ShipmentRecord) domain.DatasetSummary {
	summary := domain.DatasetSummary{
		Records:         len(records),
		TopOriginCities: []domain.NamedCount{},
		TopCarriers:     []domain.NamedCount{},
	}
	if len(records) == 0 {
		return summary
	}

	origins := make(map[string]int)
	carriers := make(map[string]int)
	cargo := make(map[string]struct{})

	summary.DateFrom = records[0].Date
	summary.DateTo = records[0].Date
	for _, r := range records {
		if r.Date.Before(summary.DateFrom) {
			summary.DateFrom = r.Date
		}
		if r.Date.After(summary.DateTo) {
			summary.DateTo = r.Date
		}
		origins[r.FromCity]++
		carriers[r.Carrier]++
		cargo[r.CargoType] = struct{}{}
		summary.TotalCost += r.CostRub
		summary.TotalWeight += int64(r.WeightKg)
	}

	summary.OriginCities = len(origins)
	summary.Carriers = len(carriers)
	summary.CargoTypes = len(cargo)
	summary.AvgCost = summary.TotalCost / float64(len(records))
	summary.TopOriginCities = TopCounts(origins, TopListSize)
	summary.TopCarriers = TopCounts(carriers, TopListSize)

	return summary
}

// TopCounts ranks labels by count descending, ties by name ascending
func TopCounts(counts map[string]int, n int) []domain.NamedCount {
	ranked := make([]domain.NamedCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, domain.NamedCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
