// Package prometheus serves engine metrics in the Prometheus text format.
//
// Families: gogate_logins_total{outcome}, gogate_logouts_total,
// gogate_sessions_discarded_total{reason}, gogate_decisions_total{decision},
// gogate_audit_events_total{state} and, when latency histograms are on,
// gogate_evaluate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global registry; callers mount the Handler.
//   - Mutate engine state.
package prometheus
