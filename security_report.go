package goGate

import (
	"net/http"

	"github.com/MrEthical07/goGate/internal/security"
)

// SecurityReport summarizes the posture of a built engine.
type SecurityReport = security.Report

// PasswordConfigReport echoes the argon2id parameters in force.
type PasswordConfigReport = security.PasswordReport

// SecurityReport reports the engine's configuration and route table. The
// Findings field lists Lint codes at warn severity or above.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	var protected int
	seen := make(map[string]struct{})
	var roles []string
	if e.table != nil {
		for _, r := range e.table.Routes() {
			if r.Public {
				continue
			}
			protected++
			for _, role := range r.RequiredRoles {
				if _, ok := seen[role]; ok {
					continue
				}
				seen[role] = struct{}{}
				roles = append(roles, role)
			}
		}
	}

	cfg := e.config
	return security.BuildReport(security.ReportInput{
		ProductionMode:   cfg.Security.ProductionMode,
		TokenCodec:       string(cfg.Token.Codec),
		SigningAlgorithm: cfg.Token.SigningMethod,
		SessionLifetime:  cfg.Session.Lifetime,
		LoginTimeout:     cfg.Login.Timeout,
		MaxAttempts:      cfg.Login.MaxAttempts,
		Password: PasswordConfigReport{
			Memory:      cfg.Password.Memory,
			Time:        cfg.Password.Time,
			Parallelism: cfg.Password.Parallelism,
			SaltLength:  cfg.Password.SaltLength,
			KeyLength:   cfg.Password.KeyLength,
			MinBytes:    cfg.Password.MinPasswordBytes,
		},
		SeedConsoleUsers: cfg.Login.SeedConsoleUsers,
		SecureCookies:    cfg.Cookie.Secure,
		SameSite:         sameSiteName(cfg.Cookie.SameSite),
		AuditEnabled:     cfg.Audit.Enabled,
		AuditDropIfFull:  cfg.Audit.DropIfFull,
		MetricsEnabled:   cfg.Metrics.Enabled,
		RouteCount:       len(e.Routes()),
		ProtectedRoutes:  protected,
		RolesReferenced:  roles,
		ManifestPath:     cfg.Routes.ManifestPath,
		LintCodes:        cfg.Lint().BySeverity(LintWarn).Codes(),
	})
}

func sameSiteName(s http.SameSite) string {
	switch s {
	case http.SameSiteLaxMode:
		return "lax"
	case http.SameSiteStrictMode:
		return "strict"
	case http.SameSiteNoneMode:
		return "none"
	default:
		return "default"
	}
}
