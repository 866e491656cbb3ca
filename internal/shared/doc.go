// Package shared holds code used across the logistics analyzer packages
// that belongs to no single layer.
//
// The testutil subpackage provides shipment fixtures and a buffered slog
// handler for asserting on log output:
//
//	logger, handler := testutil.NewTestLogger(t)
//	svc := services.NewAnalyticsService(cfg, services.NoopTelemetry(), logger)
//	...
//	testutil.AssertNoErrors(t, handler)
package shared
