package goGate

import (
	"io"

	"github.com/MrEthical07/goGate/internal/audit"
	"go.uber.org/zap"
)

// AuditEvent is one audited session transition or access decision.
type AuditEvent = audit.Event

// AuditSink receives audit events from the engine's dispatcher.
type AuditSink = audit.Sink

// AuditStats counts delivered, dropped and skipped audit events.
type AuditStats = audit.Stats

type (
	NoOpSink       = audit.NoOpSink
	MultiSink      = audit.MultiSink
	ChannelSink    = audit.ChannelSink
	JSONWriterSink = audit.JSONWriterSink
	ZapSink        = audit.ZapSink
)

// Audit event types.
const (
	AuditLoginSuccess      = audit.LoginSuccess
	AuditLoginFailure      = audit.LoginFailure
	AuditLoginDiscarded    = audit.LoginDiscarded
	AuditLogout            = audit.Logout
	AuditSessionExpired    = audit.SessionExpired
	AuditSessionMalformed  = audit.SessionMalformed
	AuditSessionUnreadable = audit.SessionUnreadable
	AuditAccessDenied      = audit.AccessDenied
	AuditLoginRequired     = audit.LoginRequired
)

func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	return audit.NewZapSink(logger)
}
