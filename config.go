package goGate

import (
	"crypto/ed25519"
	"errors"
	"net/http"
	"strings"
	"time"
)

// Config holds every tunable of an [Engine]. Build it from [DefaultConfig]
// or [HighSecurityConfig], adjust, and pass it to [Builder.WithConfig]; the
// engine keeps its own copy.
type Config struct {
	Session  SessionConfig
	Token    TokenConfig
	Routes   RoutesConfig
	Login    LoginConfig
	Cookie   CookieConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
	Security SecurityConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the token kept in client storage.
type SessionConfig struct {
	// TokenKey is the storage key of the session token.
	TokenKey string
	// Lifetime is fixed at login; sessions are never extended.
	Lifetime time.Duration
	// RedisPrefix namespaces keys written by the redis storage adapter.
	RedisPrefix string
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenCodec selects how the session token is encoded.
type TokenCodec string

const (
	// CodecJWT signs tokens. It is the only codec allowed in production.
	CodecJWT TokenCodec = "jwt"
	// CodecMock writes unsigned base64 JSON with a placeholder signature.
	CodecMock TokenCodec = "mock"
)

// TokenConfig configures the session token codec.
type TokenConfig struct {
	Codec         TokenCodec
	SigningMethod string // "ed25519" (default) or "hs256"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
	KeyID         string
}

/*
====================================
ROUTES CONFIG
====================================
*/

// RoutesConfig names the well-known console routes.
type RoutesConfig struct {
	LoginPath        string
	AccessDeniedPath string
	HomePath         string
	// ManifestPath, when set, loads the route table from a TOML manifest
	// unless [Builder.WithRoutes] supplies one.
	ManifestPath string
}

/*
====================================
LOGIN CONFIG
====================================
*/

// LoginConfig bounds the user directory call.
type LoginConfig struct {
	Timeout time.Duration
	// SeedConsoleUsers installs the development accounts when no directory
	// is supplied to the builder.
	SeedConsoleUsers bool
	// SimulatedLatency delays seeded directory lookups.
	SimulatedLatency time.Duration

	// MaxAttempts enables the Redis failure throttle when > 0. It needs a
	// client passed to Builder.WithRedis.
	MaxAttempts int
	Cooldown    time.Duration
	// ThrottleByIP also counts failures per client IP.
	ThrottleByIP bool
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig controls how the HTTP middleware stores client keys.
type CookieConfig struct {
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	// ReturnParam carries the remembered path through the login redirect.
	ReturnParam string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds argon2id parameters for the seeded directory.
type PasswordConfig struct {
	Memory           uint32
	Time             uint32
	Parallelism      uint8
	SaltLength       uint32
	KeyLength        uint32
	MinPasswordBytes int
}

/*
====================================
AUDIT / METRICS / SECURITY
====================================
*/

// AuditConfig controls asynchronous audit delivery.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
	// SkipEvents lists event types never delivered, e.g. AuditLoginRequired.
	SkipEvents []string
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// SecurityConfig enables production hardening checks.
type SecurityConfig struct {
	ProductionMode bool
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TokenKey:    "token",
			Lifetime:    time.Hour,
			RedisPrefix: "gg",
		},
		Token: TokenConfig{
			Codec:         CodecJWT,
			SigningMethod: "ed25519",
			Issuer:        "gogate",
			Audience:      "admin-console",
		},
		Routes: RoutesConfig{
			LoginPath:        "/login",
			AccessDeniedPath: "/access-denied",
			HomePath:         "/",
		},
		Login: LoginConfig{
			Timeout:  10 * time.Second,
			Cooldown: 15 * time.Minute,
		},
		Cookie: CookieConfig{
			Path:        "/",
			Secure:      true,
			SameSite:    http.SameSiteLaxMode,
			ReturnParam: "from",
		},
		Password: PasswordConfig{
			Memory:           65536,
			Time:             3,
			Parallelism:      2,
			SaltLength:       16,
			KeyLength:        32,
			MinPasswordBytes: 6,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	out.Audit.SkipEvents = append([]string(nil), cfg.Audit.SkipEvents...)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first inconsistent or unsafe setting.
func (c *Config) Validate() error {
	// Session
	if strings.TrimSpace(c.Session.TokenKey) == "" {
		return errors.New("Session TokenKey must not be empty")
	}
	if c.Session.Lifetime <= 0 {
		return errors.New("Session Lifetime must be > 0")
	}

	// Token
	switch c.Token.Codec {
	case CodecMock:
	case CodecJWT:
		switch c.Token.SigningMethod {
		case "ed25519":
			if len(c.Token.PublicKey) == 0 {
				return errors.New("ed25519 requires PublicKey")
			}
			if len(c.Token.PrivateKey) == 0 {
				return errors.New("ed25519 requires PrivateKey")
			}
		case "hs256":
			if len(c.Token.PrivateKey) < 32 {
				return errors.New("hs256 requires a PrivateKey of at least 32 bytes")
			}
		default:
			return errors.New("unsupported token signing method")
		}
		if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
			return errors.New("Token Leeway must be within [0, 2m]")
		}
	default:
		return errors.New("unsupported token codec")
	}

	// Routes
	for name, p := range map[string]string{
		"LoginPath":        c.Routes.LoginPath,
		"AccessDeniedPath": c.Routes.AccessDeniedPath,
		"HomePath":         c.Routes.HomePath,
	} {
		if !strings.HasPrefix(p, "/") {
			return errors.New("Routes " + name + " must be an absolute path")
		}
	}
	if c.Routes.LoginPath == c.Routes.AccessDeniedPath || c.Routes.LoginPath == c.Routes.HomePath {
		return errors.New("Routes LoginPath must differ from AccessDeniedPath and HomePath")
	}

	// Login
	if c.Login.Timeout <= 0 {
		return errors.New("Login Timeout must be > 0")
	}
	if c.Login.SimulatedLatency < 0 {
		return errors.New("Login SimulatedLatency must be >= 0")
	}
	if c.Login.SimulatedLatency >= c.Login.Timeout {
		return errors.New("Login SimulatedLatency must be shorter than Timeout")
	}
	if c.Login.MaxAttempts < 0 {
		return errors.New("Login MaxAttempts must be >= 0")
	}
	if c.Login.MaxAttempts > 0 && c.Login.Cooldown <= 0 {
		return errors.New("Login Cooldown must be > 0 when MaxAttempts is set")
	}

	// Cookie
	if !strings.HasPrefix(c.Cookie.Path, "/") {
		return errors.New("Cookie Path must be an absolute path")
	}
	if strings.TrimSpace(c.Cookie.ReturnParam) == "" {
		return errors.New("Cookie ReturnParam must not be empty")
	}
	if c.Cookie.SameSite == http.SameSiteNoneMode && !c.Cookie.Secure {
		return errors.New("Cookie SameSite=None requires Secure")
	}

	// Password
	if c.Password.Memory < 8*1024 || c.Password.Time < 1 || c.Password.Parallelism < 1 {
		return errors.New("Password argon2 parameters below minimum")
	}
	if c.Password.SaltLength < 16 || c.Password.KeyLength < 16 {
		return errors.New("Password SaltLength and KeyLength must be >= 16")
	}
	if c.Password.MinPasswordBytes < 1 {
		return errors.New("Password MinPasswordBytes must be >= 1")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	if c.Security.ProductionMode {
		if c.Token.Codec == CodecMock {
			return errors.New("ProductionMode forbids the mock token codec")
		}
		if c.Token.SigningMethod == "hs256" && len(c.Token.PrivateKey) < 64 {
			return errors.New("ProductionMode requires hs256 key length >= 512 bits")
		}
		if c.Session.Lifetime > 12*time.Hour {
			return errors.New("ProductionMode requires Session Lifetime <= 12h")
		}
		if !c.Cookie.Secure {
			return errors.New("ProductionMode requires secure cookies")
		}
		if c.Login.SeedConsoleUsers {
			return errors.New("ProductionMode forbids seeded console users")
		}
		if c.Password.Memory < 65536 || c.Password.Time < 2 || c.Password.KeyLength < 32 {
			return errors.New("ProductionMode requires Password Memory >= 65536 KB, Time >= 2, KeyLength >= 32")
		}
		if c.Token.Issuer == "" || c.Token.Audience == "" {
			return errors.New("ProductionMode requires token Issuer and Audience")
		}
	}

	return nil
}

func generateEd25519() (priv, pub []byte) {
	pk, sk, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return []byte(sk), []byte(pk)
}
