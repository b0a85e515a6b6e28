package middleware

import (
	"context"
	"net"
	"net/http"

	goGate "github.com/MrEthical07/goGate"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

var traceContext = propagation.TraceContext{}

type principalContextKey struct{}

// PrincipalFromContext returns the principal injected by [Guard] or
// [RequireRoles].
func PrincipalFromContext(ctx context.Context) (*goGate.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*goGate.Principal)
	return p, ok && p != nil
}

// RequestIDHeader carries a caller-chosen request id into audit events.
const RequestIDHeader = "X-Request-ID"

// Guard evaluates every request path against the engine's route table.
// Allowed requests reach next with the principal in context and the cleaned
// path in r.URL.Path; the rest are redirected to the login or access-denied
// route.
func Guard(engine *goGate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			cfg := engine.Config()
			ctx := requestContext(r)

			nav := NewNavigator(w, r, cfg.Cookie.ReturnParam)
			g, err := engine.Guard(NewStorage(w, r, cfg.Cookie, cfg.Session.TokenKey), nav)
			if err != nil {
				engine.Logger().Error("guard unavailable", zap.Error(err))
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}

			out, err := g.Navigate(ctx, r.URL.Path)
			if err != nil {
				engine.Logger().Warn("guard redirect failed", zap.String("path", r.URL.Path), zap.Error(err))
			}
			if !out.Render {
				if !nav.Redirected() {
					http.Error(w, "forbidden", http.StatusForbidden)
				}
				return
			}

			if out.Principal != nil {
				ctx = context.WithValue(ctx, principalContextKey{}, out.Principal)
			}
			r = r.WithContext(ctx)
			if r.URL.Path != out.Path {
				// Serve the path that was evaluated, not the raw one.
				u := *r.URL
				u.Path, u.RawPath = out.Path, ""
				r.URL = &u
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestContext carries client IP, request id and any W3C traceparent into
// the audit trail.
func requestContext(r *http.Request) context.Context {
	ctx := traceContext.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	if ip := clientIP(r); ip != "" {
		ctx = goGate.WithClientIP(ctx, ip)
	}
	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	return goGate.WithRequestID(ctx, id)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
