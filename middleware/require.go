package middleware

import (
	"context"
	"net/http"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/policy"
)

// RequireRoles protects an API handler. Anonymous callers get 401 and
// callers holding none of roles get 403. An empty roles list admits any
// authenticated caller.
func RequireRoles(engine *goGate.Engine, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			cfg := engine.Config()
			ctx := requestContext(r)

			sessions, err := engine.Sessions(NewStorage(w, r, cfg.Cookie, cfg.Session.TokenKey))
			if err != nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			p, _ := sessions.Current(ctx)

			req := policy.Requirement{Path: r.URL.Path, RequiredRoles: roles}
			switch policy.Evaluate(p, req) {
			case policy.Allow:
				next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, principalContextKey{}, p)))
			case policy.RedirectToLogin:
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			default:
				http.Error(w, "forbidden", http.StatusForbidden)
			}
		})
	}
}

// RequireAdmin admits only the admin role.
func RequireAdmin(engine *goGate.Engine) func(http.Handler) http.Handler {
	return RequireRoles(engine, goGate.RoleAdmin)
}
