// Package dataprocessing loads shipment tables and derives business metrics
// from them.
//
// # Loading
//
// Loader reads CSV (UTF-8, BOM tolerated) or XLSX tables whose header row
// names the shipment columns. Columns are located by name, so order does not
// matter. A missing required column or an unparseable distance, weight, cost
// or date fails the whole load; nothing is returned partially.
//
// # Aggregation
//
// Every aggregation folds records into per-key accumulators and finalizes
// derived ratios once afterwards. The package-level functions
// (CalculateKPIs, AnalyzeByCarrier, FindMostProfitableRoutes, RouteAnalysis,
// SeasonalAnalysis, Describe) are pure and never modify their input.
//
// Analyzer runs the same fold across contiguous partitions and merges the
// partials in partition order:
//
//	analyzer := dataprocessing.NewAnalyzer(dataprocessing.DefaultAnalyzerConfig(), logger)
//	report, err := analyzer.Analyze(ctx, table.Records, table.Source)
//
// Ratios with a zero denominator are never reported as zero or NaN. They
// are returned as undefined domain.Ratio values and listed in the report
// warnings.
package dataprocessing
