// Package observability provides structured logging and Prometheus metrics
// for the tenant services.
//
// This package implements:
//   - zap logger construction from LOG_LEVEL / LOG_FORMAT
//   - per-request counters, latency histogram and in-flight gauge
//   - a fault counter labelled by a closed set of fault kinds
//   - the static app_info gauge carrying the tenant configuration
package observability
