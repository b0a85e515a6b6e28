package goGate

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// LintSeverity ranks a configuration warning.
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning is a setting that validates but deserves attention.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintResult is the list of warnings returned by [Config.Lint].
type LintResult []LintWarning

// Codes returns the warning codes in order.
func (r LintResult) Codes() []string {
	out := make([]string, 0, len(r))
	for _, w := range r {
		out = append(out, w.Code)
	}
	return out
}

// BySeverity returns the warnings at or above min.
func (r LintResult) BySeverity(min LintSeverity) LintResult {
	var out LintResult
	for _, w := range r {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError joins the warnings at or above min into one error, or returns nil.
func (r LintResult) AsError(min LintSeverity) error {
	ws := r.BySeverity(min)
	if len(ws) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(ws))
	for _, w := range ws {
		msgs = append(msgs, fmt.Sprintf("[%s] %s: %s", w.Severity, w.Code, w.Message))
	}
	return errors.New("config lint: " + strings.Join(msgs, "; "))
}

// Lint reports settings that are legal but risky.
func (c *Config) Lint() LintResult {
	var ws LintResult
	add := func(code string, sev LintSeverity, msg string) {
		ws = append(ws, LintWarning{Code: code, Severity: sev, Message: msg})
	}

	if c.Token.Codec == CodecMock {
		add("mock_token_codec", LintHigh, "session tokens are unsigned and can be forged")
	}
	if c.Token.Codec == CodecJWT && c.Token.SigningMethod == "hs256" {
		add("hs256_shared_secret", LintInfo, "hs256 shares one secret between signer and verifier")
	}
	if c.Token.Leeway > 30*time.Second {
		add("leeway_large", LintWarn, "token leeway above 30s widens the expiry window")
	}
	if c.Session.Lifetime > 8*time.Hour {
		add("session_lifetime_long", LintWarn, "sessions live longer than a working day")
	}
	if c.Login.SeedConsoleUsers {
		add("seeded_console_users", LintHigh, "well-known development accounts are enabled")
	}
	if !c.Cookie.Secure {
		add("cookie_insecure", LintWarn, "session cookie is sent over plain HTTP")
	}
	if c.Cookie.SameSite == http.SameSiteNoneMode {
		add("cookie_samesite_none", LintWarn, "session cookie is sent on cross-site requests")
	}
	if !c.Audit.Enabled {
		add("audit_disabled", LintInfo, "login and access decisions are not audited")
	}
	if c.Password.Memory < 65536 {
		add("argon2_memory_low", LintWarn, "argon2 memory below 64 MiB")
	}
	if c.Login.MaxAttempts == 0 {
		add("login_throttle_disabled", LintInfo, "failed logins are not throttled")
	}
	if c.Login.Timeout > 30*time.Second {
		add("login_timeout_long", LintInfo, "login can hang for more than 30s")
	}

	return ws
}
