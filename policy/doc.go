// Package policy decides whether a principal may view a route and which
// navigation entries it should see.
//
// # Decision order
//
// [Evaluate] is a pure function applied in a fixed order: public routes are
// always allowed; an anonymous principal is sent to login; a route with no
// required roles admits any authenticated principal; otherwise the principal
// must hold at least one of the required roles.
//
// # Route table
//
// A [Table] maps paths to [Requirement] values. It is populated during
// initialization, frozen, and then read concurrently. Paths are cleaned of
// dot segments first. Lookup falls back to the longest registered non-public
// segment prefix and finally to the home route; public routes match only
// exactly.
//
// # Architecture boundaries
//
// This package holds in-memory data only. It reads [session.Principal] values
// but never loads them; the guard and middleware do that.
//
// # What this package must NOT do
//
//   - Access storage, the network, or the session store.
//   - Import goGate, guard, or middleware.
//   - Treat authorization outcomes as errors.
package policy
