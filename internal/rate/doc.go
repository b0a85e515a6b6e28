// Package rate throttles failed logins with Redis fixed-window counters.
//
// # Window semantics
//
// INCR plus EXPIRE on the first hit. Keys, under the configured prefix:
//   - rl:login:<email> counts failures per normalized email
//   - rl:ip:<ip> counts failures per client IP when PerIP is set
//
// # What this package must NOT do
//
//   - Decide whether credentials are valid.
//   - Be imported outside the goGate module.
package rate
