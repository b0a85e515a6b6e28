// Package middleware adapts a goGate.Engine to net/http.
//
// Each request gets its own client storage backed by cookies ([Storage]),
// a redirecting navigator ([Navigator]) and a guard from the engine.
//
//   - [Guard] evaluates the request path and either serves the page with
//     the principal in context or redirects to login or access denied.
//   - [RequireRoles] protects API handlers with 401 and 403 responses
//     instead of redirects.
//   - [LoginHandler] and [LogoutHandler] serve the login form post and
//     the logout action.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into engine calls. Decisions stay
// in policy and guard; this package only carries them to the response.
//
// # What this package must NOT do
//
//   - Decode or sign tokens directly.
//   - Cache principals across requests.
//   - Decide access beyond what the engine returns.
package middleware
