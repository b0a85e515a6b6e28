// Package otel publishes goGate engine metrics through OpenTelemetry
// observable instruments.
//
// Each counter family becomes one Int64ObservableCounter whose series are
// told apart by an attribute (outcome, reason, decision or state). The
// evaluate latency histogram is exposed as cumulative bucket gauges keyed
// by an "le" attribute plus a count gauge. A single callback reads the
// engine snapshot on each collection.
//
// # What this package must NOT do
//
//   - Own the MeterProvider; callers supply the Meter.
//   - Mutate engine state.
package otel
