package goGate

import (
	"fmt"

	"github.com/MrEthical07/goGate/directory"
	"github.com/MrEthical07/goGate/internal/audit"
	"github.com/MrEthical07/goGate/internal/rate"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/policy"
	"github.com/MrEthical07/goGate/session"
	"github.com/MrEthical07/goGate/token"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Builder assembles an [Engine]. Configure it during initialization, call
// Build once, and discard it.
type Builder struct {
	config Config

	directory session.Directory
	codec     session.Codec
	routes    *policy.Table
	auditSink AuditSink
	logger    *zap.Logger
	redis     redis.UniversalClient

	built bool
}

// New returns a builder holding the package defaults. The defaults carry no
// signing keys; start from [DefaultConfig] or [HighSecurityConfig] instead.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration with a copy of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithUserDirectory sets the credential source. Without one, Build seeds
// the console users when Login.SeedConsoleUsers is set and fails otherwise.
func (b *Builder) WithUserDirectory(d session.Directory) *Builder {
	b.directory = d
	return b
}

// WithRoutes sets the route table. It is frozen by Build.
func (b *Builder) WithRoutes(t *policy.Table) *Builder {
	b.routes = t
	return b
}

// WithCodec overrides the codec built from Config.Token.
func (b *Builder) WithCodec(c session.Codec) *Builder {
	b.codec = c
	return b
}

// WithAuditSink sets where audit events are delivered.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the engine logger. The default discards everything.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithRedis supplies the client used by the login failure throttle.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the Evaluate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine. A builder can be
// used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// -------- TOKEN CODEC --------
	codec := b.codec
	if codec == nil {
		c, err := buildCodec(cfg.Token)
		if err != nil {
			return nil, err
		}
		codec = c
	}
	if cfg.Security.ProductionMode && isMockCodec(codec) {
		return nil, ErrMockCodecInProduction
	}

	// -------- ROUTE TABLE --------
	table := b.routes
	switch {
	case table != nil:
	case cfg.Routes.ManifestPath != "":
		t, err := policy.LoadManifestFile(cfg.Routes.ManifestPath)
		if err != nil {
			return nil, err
		}
		table = t
	default:
		table = policy.DefaultTable()
	}
	table.Freeze()
	if _, ok := table.Lookup(cfg.Routes.HomePath); !ok {
		return nil, fmt.Errorf("%w: home path %s has no route", ErrInvalidRoute, cfg.Routes.HomePath)
	}

	// -------- USER DIRECTORY --------
	dir := b.directory
	if dir == nil {
		if !cfg.Login.SeedConsoleUsers {
			return nil, ErrDirectoryRequired
		}
		seeded, err := seedDirectory(cfg)
		if err != nil {
			return nil, err
		}
		dir = seeded
		logger.Warn("seeded console users into in-memory directory")
	}

	metrics := NewMetrics(cfg.Metrics)

	// -------- LOGIN THROTTLE --------
	if cfg.Login.MaxAttempts > 0 {
		if b.redis == nil {
			return nil, ErrRedisRequired
		}
		dir = &throttledDirectory{
			next: dir,
			limiter: rate.New(b.redis, rate.Config{
				Prefix:      cfg.Session.RedisPrefix,
				MaxAttempts: cfg.Login.MaxAttempts,
				Cooldown:    cfg.Login.Cooldown,
				PerIP:       cfg.Login.ThrottleByIP,
			}),
			metrics: metrics,
			logger:  logger,
		}
	}

	engine := &Engine{
		config:    cloneConfig(cfg),
		table:     table,
		directory: dir,
		codec:     codec,
		logger:    logger,
	}
	engine.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
		Skip:       cfg.Audit.SkipEvents,
	}, b.auditSink)
	engine.metrics = metrics

	b.built = true

	logger.Info("engine built",
		zap.String("codec", string(cfg.Token.Codec)),
		zap.Int("routes", table.Count()),
		zap.Bool("production", cfg.Security.ProductionMode),
		zap.Bool("login_throttle", cfg.Login.MaxAttempts > 0),
	)

	return engine, nil
}

func buildCodec(cfg TokenConfig) (session.Codec, error) {
	switch cfg.Codec {
	case CodecMock:
		return token.NewMockCodec(), nil
	case CodecJWT:
		return token.NewJWTCodec(token.Config{
			SigningMethod: token.SigningMethod(cfg.SigningMethod),
			PrivateKey:    cloneBytes(cfg.PrivateKey),
			PublicKey:     cloneBytes(cfg.PublicKey),
			Issuer:        cfg.Issuer,
			Audience:      cfg.Audience,
			Leeway:        cfg.Leeway,
			KeyID:         cfg.KeyID,
		})
	default:
		return nil, fmt.Errorf("unsupported token codec %q", cfg.Codec)
	}
}

func isMockCodec(c session.Codec) bool {
	switch c.(type) {
	case token.MockCodec, *token.MockCodec:
		return true
	}
	return false
}

func seedDirectory(cfg Config) (*directory.Memory, error) {
	hasher, err := password.NewArgon2(password.Config{
		Memory:           cfg.Password.Memory,
		Time:             cfg.Password.Time,
		Parallelism:      cfg.Password.Parallelism,
		SaltLength:       cfg.Password.SaltLength,
		KeyLength:        cfg.Password.KeyLength,
		MinPasswordBytes: cfg.Password.MinPasswordBytes,
	})
	if err != nil {
		return nil, err
	}
	var opts []directory.Option
	if cfg.Login.SimulatedLatency > 0 {
		opts = append(opts, directory.WithLatency(cfg.Login.SimulatedLatency))
	}
	dir := directory.NewMemory(hasher, opts...)
	if err := dir.Seed(); err != nil {
		return nil, err
	}
	return dir, nil
}
