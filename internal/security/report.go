package security

import "time"

// PasswordReport echoes the argon2id parameters in force.
type PasswordReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	MinBytes    int
}

// Report summarizes the security posture of one engine configuration.
type Report struct {
	ProductionMode      bool
	TokenCodec          string
	SigningAlgorithm    string
	TokensSigned        bool
	SessionLifetime     time.Duration
	LoginTimeout        time.Duration
	LoginThrottle       bool
	LoginMaxAttempts    int
	Argon2              PasswordReport
	SeededConsoleUsers  bool
	SecureCookies       bool
	SameSite            string
	AuditActive         bool
	AuditLossless       bool
	MetricsActive       bool
	RouteCount          int
	ProtectedRouteCount int
	RolesReferenced     []string
	ManifestLoaded      bool
	Findings            []string
}

// ReportInput is the flattened configuration BuildReport reads.
type ReportInput struct {
	ProductionMode   bool
	TokenCodec       string
	SigningAlgorithm string
	SessionLifetime  time.Duration
	LoginTimeout     time.Duration
	MaxAttempts      int
	Password         PasswordReport
	SeedConsoleUsers bool
	SecureCookies    bool
	SameSite         string
	AuditEnabled     bool
	AuditDropIfFull  bool
	MetricsEnabled   bool
	RouteCount       int
	ProtectedRoutes  int
	RolesReferenced  []string
	ManifestPath     string
	LintCodes        []string
}

// BuildReport derives a Report from input.
func BuildReport(input ReportInput) Report {
	signed := input.TokenCodec != "mock"
	roles := append([]string(nil), input.RolesReferenced...)
	findings := append([]string(nil), input.LintCodes...)

	return Report{
		ProductionMode:      input.ProductionMode,
		TokenCodec:          input.TokenCodec,
		SigningAlgorithm:    signingAlgorithm(signed, input.SigningAlgorithm),
		TokensSigned:        signed,
		SessionLifetime:     input.SessionLifetime,
		LoginTimeout:        input.LoginTimeout,
		LoginThrottle:       input.MaxAttempts > 0,
		LoginMaxAttempts:    input.MaxAttempts,
		Argon2:              input.Password,
		SeededConsoleUsers:  input.SeedConsoleUsers,
		SecureCookies:       input.SecureCookies,
		SameSite:            input.SameSite,
		AuditActive:         input.AuditEnabled,
		AuditLossless:       input.AuditEnabled && !input.AuditDropIfFull,
		MetricsActive:       input.MetricsEnabled,
		RouteCount:          input.RouteCount,
		ProtectedRouteCount: input.ProtectedRoutes,
		RolesReferenced:     roles,
		ManifestLoaded:      input.ManifestPath != "",
		Findings:            findings,
	}
}

func signingAlgorithm(signed bool, alg string) string {
	if !signed {
		return "none"
	}
	return alg
}
