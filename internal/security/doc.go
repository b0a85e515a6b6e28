// Package security derives a read-only posture report from engine
// configuration.
//
// # What this package must NOT do
//
//   - Import the root package; inputs arrive flattened in ReportInput.
//   - Change configuration. It only reports.
package security
