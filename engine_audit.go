package goGate

import (
	"context"
	"time"

	"github.com/MrEthical07/goGate/policy"
	"github.com/MrEthical07/goGate/session"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	event.Time = time.Now().UTC()
	if event.IP == "" {
		event.IP = clientIPFromContext(ctx)
	}
	event.RequestID = requestIDFromContext(ctx)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		event.TraceID = sc.TraceID().String()
		event.SpanID = sc.SpanID().String()
	}
	e.audit.Emit(ctx, event)
}

// sessionHooks translate session store transitions into metrics, audit
// events and log entries.
func (e *Engine) sessionHooks() session.Hooks {
	return session.Hooks{
		LoginSucceeded: func(ctx context.Context, p *session.Principal) {
			e.metrics.Inc(MetricLoginSuccess)
			e.logger.Info("login succeeded", zap.String("user_id", p.ID), zap.Strings("roles", p.Roles))
			e.emitAudit(ctx, AuditEvent{Type: AuditLoginSuccess, UserID: p.ID, Success: true})
		},
		LoginFailed: func(ctx context.Context, email, reason string) {
			e.metrics.Inc(MetricLoginFailure)
			if reason == session.ReasonTimeout {
				e.metrics.Inc(MetricLoginTimeout)
			}
			e.logger.Info("login failed", zap.String("reason", reason))
			e.emitAudit(ctx, AuditEvent{
				Type:   AuditLoginFailure,
				Reason: reason,
				Extra:  map[string]string{"email": email},
			})
		},
		LoggedOut: func(ctx context.Context) {
			e.metrics.Inc(MetricLogout)
			e.emitAudit(ctx, AuditEvent{Type: AuditLogout, Success: true})
		},
		TokenDiscarded: func(ctx context.Context, reason string) {
			event := AuditEvent{Reason: reason}
			switch reason {
			case session.ReasonExpired:
				e.metrics.Inc(MetricSessionExpired)
				event.Type = AuditSessionExpired
			case session.ReasonStorageRead:
				e.metrics.Inc(MetricStorageReadFailure)
				event.Type = AuditSessionUnreadable
			default:
				e.metrics.Inc(MetricSessionMalformed)
				event.Type = AuditSessionMalformed
			}
			e.logger.Debug("session token discarded", zap.String("reason", reason))
			e.emitAudit(ctx, event)
		},
		Warn: func(msg string, err error) {
			e.logger.Warn(msg, zap.Error(err))
		},
	}
}

// recordDecision counts one access decision and audits the redirects.
func (e *Engine) recordDecision(ctx context.Context, path string, d policy.Decision, p *session.Principal) {
	var userID string
	if p != nil {
		userID = p.ID
	}
	switch d {
	case policy.Allow:
		e.metrics.Inc(MetricDecisionAllow)
	case policy.RedirectToLogin:
		e.metrics.Inc(MetricDecisionLogin)
		e.emitAudit(ctx, AuditEvent{Type: AuditLoginRequired, Path: path, Decision: d.String()})
	case policy.RedirectToAccessDenied:
		e.metrics.Inc(MetricDecisionDenied)
		e.logger.Info("access denied", zap.String("user_id", userID), zap.String("path", path))
		e.emitAudit(ctx, AuditEvent{Type: AuditAccessDenied, UserID: userID, Path: path, Decision: d.String()})
	}
	if ce := e.logger.Check(zap.DebugLevel, "access decision"); ce != nil {
		ce.Write(zap.String("user_id", userID), zap.String("path", path), zap.Stringer("decision", d))
	}
}

func (e *Engine) loginDiscarded(ctx context.Context) {
	e.metrics.Inc(MetricLoginDiscarded)
	e.logger.Info("stale login discarded")
	e.emitAudit(ctx, AuditEvent{Type: AuditLoginDiscarded})
}
