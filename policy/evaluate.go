package policy

import "github.com/MrEthical07/goGate/session"

// Decision is the outcome of evaluating a requirement.
type Decision int

const (
	// Allow renders the route.
	Allow Decision = iota
	// RedirectToLogin sends an anonymous visitor to the login route.
	RedirectToLogin
	// RedirectToAccessDenied sends an authenticated principal lacking the
	// required roles to the access-denied route.
	RedirectToAccessDenied
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToAccessDenied:
		return "redirect_to_access_denied"
	default:
		return "unknown"
	}
}

// Evaluate decides access for principal, which is nil when anonymous.
func Evaluate(principal *session.Principal, req Requirement) Decision {
	if req.Public {
		return Allow
	}
	if principal == nil {
		return RedirectToLogin
	}
	if len(req.RequiredRoles) == 0 {
		return Allow
	}
	if principal.HasAnyRole(req.RequiredRoles) {
		return Allow
	}
	return RedirectToAccessDenied
}

// FilterVisible keeps the requirements principal is allowed to view, in
// their original order.
func FilterVisible(principal *session.Principal, reqs []Requirement) []Requirement {
	out := make([]Requirement, 0, len(reqs))
	for _, req := range reqs {
		if Evaluate(principal, req) == Allow {
			out = append(out, req)
		}
	}
	return out
}
