package goGate

import "time"

// DefaultConfig returns a development configuration: signed Ed25519 tokens
// with freshly generated keys, the console users seeded into an in-memory
// directory, and audit and metrics enabled.
func DefaultConfig() Config {
	cfg := defaultConfig()
	cfg.Token.PrivateKey, cfg.Token.PublicKey = generateEd25519()
	cfg.Login.SeedConsoleUsers = true
	cfg.Cookie.Secure = false
	cfg.Audit.Enabled = true
	cfg.Metrics.Enabled = true
	return cfg
}

// DevelopmentMockConfig mirrors DefaultConfig but writes unsigned mock tokens.
// It never validates with ProductionMode set.
func DevelopmentMockConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.Codec = CodecMock
	cfg.Token.PrivateKey, cfg.Token.PublicKey = nil, nil
	return cfg
}

// HighSecurityConfig returns a production configuration. Callers must
// supply a user directory to the builder.
func HighSecurityConfig() Config {
	cfg := defaultConfig()
	cfg.Token.PrivateKey, cfg.Token.PublicKey = generateEd25519()
	cfg.Token.Leeway = 5 * time.Second
	cfg.Session.Lifetime = time.Hour
	cfg.Cookie.Secure = true
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	cfg.Security.ProductionMode = true
	return cfg
}
