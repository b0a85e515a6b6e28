// Package session owns the client-side session: the [Principal] model, the
// token persisted in client storage, and the [Store] that reads it back.
//
// # Self-healing reads
//
// [Store.Current] never fails. A missing token, an undecodable token, an
// expired token, and an unreadable storage backend all collapse into "no
// session". Undecodable and expired tokens are removed from storage on the
// read that discovers them, so later reads see a clean slate.
//
// # Architecture boundaries
//
// This package owns the [Store] and the [Principal] model. It does NOT decide
// which routes a principal may open (package policy) and it does NOT navigate
// (package guard). Token encoding is delegated to a [Codec].
//
// # What this package must NOT do
//
//   - Import goGate, policy, guard, or middleware (no upward imports).
//   - Log or persist plaintext passwords.
//   - Surface expiry or malformed tokens as errors.
package session
