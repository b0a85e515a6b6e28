// Package goGate is the access layer of an admin console: who is logged in,
// which routes they may open, and where they are sent when they may not.
//
// A process builds one [Engine] through [Builder.Build]. The engine owns the
// frozen route table, the user directory, the token codec, and the audit,
// metrics and logging plumbing. Each client (a browser tab, an HTTP request
// carrying cookies) gets its own session store from [Engine.Sessions] and,
// for navigation, its own guard from [Engine.Guard].
//
// # Architecture boundaries
//
// goGate is the public surface. The mechanics live in sub-packages:
// session (token lifecycle), policy (routes and decisions), guard
// (redirects and stale-login handling), token (codecs), directory and
// password (credential checks), storage (client key/value adapters) and
// preferences (dashboard layouts). Audit dispatch lives under internal/.
//
// # What this package must NOT do
//
//   - Cache a principal outside client storage.
//   - Extend a session past the lifetime fixed at login.
//   - Import middleware or exporter packages; they import goGate.
package goGate
