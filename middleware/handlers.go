package middleware

import (
	"errors"
	"net/http"
	"net/url"

	goGate "github.com/MrEthical07/goGate"
	"go.uber.org/zap"
)

// LoginErrorParam is set on the login redirect after rejected credentials.
const LoginErrorParam = "error"

// LoginHandler accepts a form post with email, password and the return
// path. Success redirects to the return path, or to access denied when the
// user may not open it. Rejected credentials go back to the login route.
func LoginHandler(engine *goGate.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		cfg := engine.Config()
		ctx := requestContext(r)

		nav := NewNavigator(w, r, cfg.Cookie.ReturnParam)
		g, err := engine.Guard(NewStorage(w, r, cfg.Cookie, cfg.Session.TokenKey), nav)
		if err != nil {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		from := r.PostForm.Get(cfg.Cookie.ReturnParam)
		g.Remember(from)

		_, err = g.Login(ctx, goGate.Credentials{
			Email:    r.PostForm.Get("email"),
			Password: r.PostForm.Get("password"),
		})
		switch {
		case errors.Is(err, goGate.ErrInvalidCredentials):
			q := url.Values{LoginErrorParam: {"invalid_credentials"}}
			if from != "" {
				q.Set(cfg.Cookie.ReturnParam, from)
			}
			http.Redirect(w, r, cfg.Routes.LoginPath+"?"+q.Encode(), http.StatusSeeOther)
		case err != nil:
			engine.Logger().Error("login failed", zap.Error(err))
			if !nav.Redirected() {
				http.Error(w, "login unavailable", http.StatusServiceUnavailable)
			}
		}
	})
}

// LogoutHandler clears the session and redirects to the login route.
func LogoutHandler(engine *goGate.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		cfg := engine.Config()
		nav := NewNavigator(w, r, cfg.Cookie.ReturnParam)
		g, err := engine.Guard(NewStorage(w, r, cfg.Cookie, cfg.Session.TokenKey), nav)
		if err != nil {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		if _, err := g.Logout(requestContext(r)); err != nil {
			engine.Logger().Error("logout failed", zap.Error(err))
			http.Error(w, "logout failed", http.StatusInternalServerError)
		}
	})
}
