// Package http implements the read-only JSON API the logistics dashboard
// reads from. Handlers parse and validate query parameters, call a service
// interface and render the result with go-chi/render.
//
// Routes:
//
//	GET  /api/health                  liveness summary and served dataset
//	GET  /api/health/ready            503 until the dataset is usable
//	GET  /api/health/live
//	GET  /api/version
//	GET  /api/v1/kpis
//	GET  /api/v1/carriers             ranked by shipment count
//	GET  /api/v1/carriers/costs       total cost per carrier
//	GET  /api/v1/routes?top=N         popular and most expensive per km
//	GET  /api/v1/routes/profitable?top=N
//	GET  /api/v1/seasonal
//	GET  /api/v1/summary
//	POST /api/v1/client-log
//
// Errors are rendered as RFC 7807 problem details by errors.ErrorHandler.
package http
