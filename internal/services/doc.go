// Package services implements the use cases of the logistics analyzer on top
// of the generator, dataset, dataprocessing and exporter packages.
//
// # Available Services
//
//   - DatasetService: generates the synthetic table and writes the full
//     table, the sample and the statistics summary
//   - AnalyticsService: loads a table and runs the aggregation engine
//   - DashboardService: serves cached read-only views of one table and
//     re-analyses it when the file changes
//   - HealthService: liveness, readiness and version information
//
// Every service takes a *slog.Logger and derives a component logger from it.
// Spans and business metrics go through a Telemetry value; NoopTelemetry is
// used when none is supplied.
//
// # Error Handling
//
// Services return *errors.AppError values from internal/errors so transports
// can map them: NOT_FOUND for missing inputs, SCHEMA for malformed tables,
// STORAGE for failed writes and CONFIG for unusable reference data.
package services
