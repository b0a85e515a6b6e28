// Package internaldefs maps engine counters to the metric families both
// exporters publish, so Prometheus scrapes and OpenTelemetry collections
// carry the same names and labels.
//
// # What this package must NOT do
//
//   - Import an exporter package.
//   - Perform I/O.
package internaldefs
