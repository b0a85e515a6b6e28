package middleware

import (
	"context"
	"net/http"
	"net/url"

	goGate "github.com/MrEthical07/goGate"
)

// Navigator turns guard redirects into 303 responses. A remembered path
// travels in the ReturnParam query parameter.
type Navigator struct {
	w           http.ResponseWriter
	r           *http.Request
	returnParam string
	redirected  bool
}

// NewNavigator returns a navigator for one request.
func NewNavigator(w http.ResponseWriter, r *http.Request, returnParam string) *Navigator {
	return &Navigator{w: w, r: r, returnParam: returnParam}
}

// Redirect implements guard.Navigator. Only the first redirect of a request
// is written.
func (n *Navigator) Redirect(_ context.Context, path string, opts goGate.RedirectOptions) error {
	if n.redirected {
		return nil
	}
	n.redirected = true

	target := path
	if opts.RememberOriginalPath != "" && n.returnParam != "" {
		target += "?" + url.Values{n.returnParam: {opts.RememberOriginalPath}}.Encode()
	}
	http.Redirect(n.w, n.r, target, http.StatusSeeOther)
	return nil
}

// Redirected reports whether a redirect was written.
func (n *Navigator) Redirected() bool {
	return n.redirected
}
