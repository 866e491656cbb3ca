package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/burevuh-next/logistics-analyzer/pkg/contracts/domain"
)

// monthNames indexes calendar months from 1
var monthNames = [...]string{"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

// textWriter keeps the first write error so report code stays linear
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) section(title string) {
	t.printf("%s\n%s\n", title, strings.Repeat("-", len(title)))
}

// WriteDatasetStatistics writes the human-readable summary of a generated table
func WriteDatasetStatistics(w io.Writer, summary domain.DatasetSummary, seed int64) error {
	t := &textWriter{w: w}

	t.printf("Logistics Dataset Statistics\n")
	t.printf("============================\n\n")
	t.printf("Seed: %d\n\n", seed)

	t.section("DATASET OVERVIEW")
	t.printf("Total Records: %s\n", formatCount(int64(summary.Records)))
	if summary.Records > 0 {
		t.printf("Date Range: %s to %s\n",
			summary.DateFrom.Format(domain.DateLayout), summary.DateTo.Format(domain.DateLayout))
	}
	t.printf("Origin Cities: %d\n", summary.OriginCities)
	t.printf("Carriers: %d\n", summary.Carriers)
	t.printf("Cargo Types: %d\n", summary.CargoTypes)
	t.printf("Total Cost: %s RUB\n", formatMoney(summary.TotalCost))
	t.printf("Average Cost: %s RUB\n", formatMoney(summary.AvgCost))
	t.printf("Total Weight: %s kg\n\n", formatCount(summary.TotalWeight))

	t.section(fmt.Sprintf("TOP %d ORIGIN CITIES", len(summary.TopOriginCities)))
	for i, c := range summary.TopOriginCities {
		t.printf("%2d. %s: %d\n", i+1, c.Name, c.Count)
	}
	t.printf("\n")

	t.section(fmt.Sprintf("TOP %d CARRIERS", len(summary.TopCarriers)))
	for i, c := range summary.TopCarriers {
		t.printf("%2d. %s: %d\n", i+1, c.Name, c.Count)
	}
	return t.err
}

// WriteKPIReport writes one "key: value" line per indicator
func WriteKPIReport(w io.Writer, kpis domain.KPISet) error {
	t := &textWriter{w: w}
	t.printf("total_shipments: %d\n", kpis.TotalShipments)
	t.printf("total_cost: %s\n", formatFloat(kpis.TotalCost))
	t.printf("total_distance: %s\n", formatInt(kpis.TotalDistance))
	t.printf("total_weight: %s\n", formatInt(kpis.TotalWeight))
	t.printf("avg_cost_per_km: %s\n", formatFloat(kpis.AvgCostPerKm))
	t.printf("avg_cost_per_kg: %s\n", formatFloat(kpis.AvgCostPerKg))
	t.printf("avg_distance: %s\n", formatFloat(kpis.AvgDistance))
	t.printf("avg_weight: %s\n", formatFloat(kpis.AvgWeight))
	if kpis.MostCommonRoute != nil {
		t.printf("most_common_route: %s (%d)\n", kpis.MostCommonRoute.Route, kpis.MostCommonRoute.Shipments)
	}
	return t.err
}

// WriteExtendedReport writes the full analysis as ranked text tables
func WriteExtendedReport(w io.Writer, report *domain.AnalysisReport) error {
	t := &textWriter{w: w}

	t.printf("Logistics Analysis Report\n")
	t.printf("=========================\n\n")
	t.printf("Source: %s\n", report.Source)
	t.printf("Generated: %s\n\n", report.GeneratedAt.Format(time.DateTime))

	k := report.KPIs
	t.section("KEY INDICATORS")
	t.printf("Shipments: %s\n", formatCount(int64(k.TotalShipments)))
	t.printf("Total Cost: %s RUB\n", formatMoney(k.TotalCost))
	t.printf("Total Distance: %s km\n", formatCount(k.TotalDistance))
	t.printf("Total Weight: %s kg\n", formatCount(k.TotalWeight))
	t.printf("Avg Cost per km: %s RUB\n", formatMoney(k.AvgCostPerKm))
	t.printf("Avg Cost per kg: %s RUB\n", formatMoney(k.AvgCostPerKg))
	if k.MostCommonRoute != nil {
		t.printf("Most Common Route: %s (%d shipments)\n", k.MostCommonRoute.Route, k.MostCommonRoute.Shipments)
	}
	t.printf("\n")

	t.section("CARRIERS BY SHIPMENTS")
	for i, c := range report.Carriers {
		t.printf("%2d. %s: %d shipments, total %s RUB, avg %s RUB, median %s RUB, %s RUB/km\n",
			i+1, c.Carrier, c.Shipments, formatMoney(c.TotalCost), formatMoney(c.AvgCost),
			formatMoney(c.MedianCost), c.AvgCostPerKm.Format(2))
	}
	t.printf("\n")

	t.section("MOST EFFICIENT CARRIERS (mean RUB/km)")
	for i, c := range report.EfficientCarriers {
		t.printf("%2d. %s: %s\n", i+1, c.Carrier, c.Efficiency.Format(2))
	}
	t.printf("\n")

	t.section("MOST PROFITABLE ROUTES")
	for i, r := range report.ProfitableRoutes {
		t.printf("%2d. %s: %.2f RUB/km (shipment %d, %s, %s RUB over %d km)\n",
			i+1, r.Route, r.CostPerKm, r.ShipmentID, r.Carrier, formatMoney(r.CostRub), r.DistanceKm)
	}
	t.printf("\n")

	t.section("POPULAR ROUTES")
	for i, r := range report.PopularRoutes {
		t.printf("%2d. %s: %d shipments, avg %s RUB, avg %.0f km\n",
			i+1, r.Route, r.Shipments, formatMoney(r.AvgCost), r.AvgDistance)
	}
	t.printf("\n")

	t.section("MOST EXPENSIVE ROUTES PER KM")
	for i, r := range report.ExpensiveRoutes {
		t.printf("%2d. %s: %s RUB/km\n", i+1, r.Route, r.AvgCostPerKm.Format(2))
	}

	if report.Seasonal.Applicable {
		t.printf("\n")
		t.section("SEASONAL BREAKDOWN")
		for _, m := range report.Seasonal.Months {
			t.printf("%-10s %5d shipments, %s RUB, %s kg\n",
				monthNames[m.Month], m.Shipments, formatMoney(m.TotalCost), formatCount(m.TotalWeight))
		}
		t.printf("Busiest Month: %s\n", monthNames[report.Seasonal.BusiestMonth])
	}

	if len(report.Warnings) > 0 {
		t.printf("\n")
		t.section("WARNINGS")
		for _, w := range report.Warnings {
			t.printf("- %s\n", w.Message)
		}
	}
	return t.err
}

// WriteColumnStatsText prints describe-style statistics, one column per line
func WriteColumnStatsText(w io.Writer, stats []domain.ColumnStats) error {
	t := &textWriter{w: w}
	t.printf("%-20s %8s %14s %14s %12s %12s %12s %12s %14s\n",
		"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	for _, s := range stats {
		t.printf("%-20s %8d %14.2f %14.2f %12.2f %12.2f %12.2f %12.2f %14.2f\n",
			s.Column, s.Count, s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max)
	}
	return t.err
}
