// Package app wires the dashboard API server: configuration, logging,
// OpenTelemetry, services, middleware and routes.
//
// # Initialization Flow
//
//  1. Load configuration (defaults, YAML file, LOGI_* environment)
//  2. Initialize the JSON logger and OpenTelemetry providers
//  3. Resolve paths and build the analytics, dashboard and health services
//  4. Mount the chi router and create the http.Server
//
// NewApplication takes every dependency explicitly so tests can build the
// router without touching global state. Run blocks until SIGINT or SIGTERM
// and then shuts the server down within Server.ShutdownTimeout.
package app
