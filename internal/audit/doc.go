// Package audit records session transitions and access decisions without
// holding up the request that caused them.
//
// The engine builds an [Event] per login, logout, discarded token and
// redirecting decision; a [Dispatcher] queues it and one goroutine hands it
// to a [Sink]. Sinks: zap, JSON lines, channel, fan-out, no-op.
//
// # Backpressure
//
// With DropIfFull a full queue drops the event and counts it. Without it,
// Emit waits for room until the request context ends, then counts a drop.
//
// # What this package must NOT do
//
//   - Import goGate or any sibling internal package.
//   - Record passwords or raw session tokens.
package audit
