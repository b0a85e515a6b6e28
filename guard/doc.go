// Package guard is the enforcement point between navigation and rendering.
//
// Every navigation reads the current principal from the session store,
// resolves the target route in a [policy.Table], and either renders the view
// or asks a [Navigator] to redirect. The guard never renders markup itself.
//
// # Stale logins
//
// Login suspends on the user directory. A navigation counter is captured
// before the call; when any navigation or logout happens while it is in
// flight, the result is reported as stale, the token it wrote is removed
// and no redirect is issued.
//
// # Architecture boundaries
//
// The guard depends on a [Sessions] source and a [Navigator]; both are
// supplied per client by the caller. It holds the remembered path and the
// current [State] for that client only.
//
// # What this package must NOT do
//
//   - Write or decode session tokens directly.
//   - Render views or depend on net/http.
//   - Start background timers; expiry is detected on the next navigation.
package guard
