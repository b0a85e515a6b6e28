package token

import (
	"time"

	"github.com/MrEthical07/goGate/session"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: exactly the principal fields plus the
// registered JWT claims carrying issue and expiry times.
type Claims struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func claimsFromPrincipal(p *session.Principal) Claims {
	return Claims{
		Name:  p.DisplayName,
		Roles: append([]string(nil), p.Roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(p.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(p.ExpiresAt),
		},
	}
}

func (c *Claims) principal() *session.Principal {
	p := &session.Principal{
		ID:          c.Subject,
		DisplayName: c.Name,
		Roles:       session.NormalizeRoles(c.Roles),
	}
	if c.IssuedAt != nil {
		p.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	return p
}

func (c *Claims) check(now time.Time) error {
	if c.Subject == "" || len(session.NormalizeRoles(c.Roles)) == 0 || c.ExpiresAt == nil {
		return session.ErrTokenMalformed
	}
	if !c.ExpiresAt.Time.After(now) {
		return session.ErrTokenExpired
	}
	return nil
}
