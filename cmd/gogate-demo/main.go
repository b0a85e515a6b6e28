// Command gogate-demo serves the admin console routes behind the goGate
// guard.
//
// Configuration comes from the environment, optionally loaded from a .env
// file (see .env.example). Dashboard layouts and the failed-login counters
// are kept in Redis; without REDIS_ADDR an in-process miniredis is started.
//
// Endpoints:
//
//	GET  /login          login form (public)
//	POST /login          form post: email, password, from
//	POST /logout         ends the session
//	GET  /access-denied  public
//	GET  /, /employees, /emails, /files, /settings   guarded pages
//	GET  /api/layout     current user's dashboard layout
//	PUT  /api/layout     replace it (JSON body)
//	DELETE /api/layout   back to the default layout
//	GET  /metrics        Prometheus metrics
//	GET  /debug/otel     the same metrics as collected by OpenTelemetry
//
// Run:
//
//	go run ./cmd/gogate-demo
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goGate "github.com/MrEthical07/goGate"
	"github.com/MrEthical07/goGate/directory"
	"github.com/MrEthical07/goGate/metrics/export/prometheus"
	"github.com/MrEthical07/goGate/middleware"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/preferences"
	"github.com/MrEthical07/goGate/storage/redisstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(os.Getenv("LOG_FORMAT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("demo stopped", zap.Error(err))
	}
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "json" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(logger *zap.Logger) error {
	// ---------- infrastructure ----------
	rdb, cleanup, err := openRedis(logger, os.Getenv("REDIS_ADDR"))
	if err != nil {
		return err
	}
	defer cleanup()

	// ---------- config ----------
	cfg := goGate.DefaultConfig()
	cfg.Metrics.EnableLatencyHistograms = true
	cfg.Routes.ManifestPath = os.Getenv("GOGATE_ROUTES")
	if v := os.Getenv("GOGATE_LOGIN_LATENCY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GOGATE_LOGIN_LATENCY: %w", err)
		}
		cfg.Login.SimulatedLatency = d
	}
	cfg.Login.MaxAttempts = 5
	cfg.Login.ThrottleByIP = true
	if v := os.Getenv("GOGATE_LOGIN_COOLDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GOGATE_LOGIN_COOLDOWN: %w", err)
		}
		cfg.Login.Cooldown = d
	}
	for _, w := range cfg.Lint() {
		logger.Warn("config lint", zap.String("code", w.Code), zap.Stringer("severity", w.Severity), zap.String("message", w.Message))
	}

	// ---------- user directory ----------
	builder := goGate.New()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool, err := openPostgres(logger, dsn)
		if err != nil {
			return err
		}
		defer pool.Close()

		dir, err := postgresDirectory(pool, cfg)
		if err != nil {
			return err
		}
		cfg.Login.SeedConsoleUsers = false
		builder = builder.WithUserDirectory(dir)
	}

	// ---------- build engine ----------
	engine, err := builder.
		WithConfig(cfg).
		WithLogger(logger).
		WithRedis(rdb).
		WithAuditSink(goGate.NewZapSink(logger)).
		Build()
	if err != nil {
		return fmt.Errorf("engine build: %w", err)
	}
	defer engine.Close()

	// ---------- routes ----------
	mux := http.NewServeMux()
	mux.Handle("POST /login", middleware.LoginHandler(engine))
	mux.Handle("POST /logout", middleware.LogoutHandler(engine))
	mux.Handle("GET /metrics", prometheus.NewPrometheusExporter(engine).Handler())
	otelm, err := newOTelMetrics(engine)
	if err != nil {
		return err
	}
	defer otelm.Close(context.Background())
	mux.Handle("GET /debug/otel", otelm)
	layout := middleware.RequireRoles(engine)(layoutHandler(engine, rdb))
	mux.Handle("GET /api/layout", layout)
	mux.Handle("PUT /api/layout", layout)
	mux.Handle("DELETE /api/layout", layout)
	mux.Handle("GET /", middleware.Guard(engine)(pageHandler(engine)))

	addr := os.Getenv("GOGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openRedis(logger *zap.Logger, addr string) (redis.UniversalClient, func(), error) {
	if addr != "" {
		rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		logger.Info("using redis", zap.String("addr", addr))
		return rdb, func() { _ = rdb.Close() }, nil
	}
	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	logger.Info("using miniredis", zap.String("addr", mr.Addr()))
	return rdb, func() {
		_ = rdb.Close()
		mr.Close()
	}, nil
}

func openPostgres(logger *zap.Logger, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, directory.Schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create console_users: %w", err)
	}
	logger.Info("using postgres directory", zap.String("host", poolConfig.ConnConfig.Host))
	return pool, nil
}

// postgresDirectory installs the console users on first start.
func postgresDirectory(pool *pgxpool.Pool, cfg goGate.Config) (*directory.Postgres, error) {
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
	dir := directory.NewPostgres(pool, hasher)
	for _, u := range directory.ConsoleUsers() {
		if _, err := dir.Add(context.Background(), u); err != nil && !errors.Is(err, directory.ErrDuplicateEmail) {
			return nil, err
		}
	}
	return dir, nil
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<title>{{.Title}}</title>
{{if .User}}<p>{{.User.DisplayName}} ({{range .User.Roles}}{{.}} {{end}})</p>
<form method="post" action="/logout"><button>Déconnexion</button></form>
<nav>{{range .Menu}}<a href="{{.Path}}">{{.Title}}</a> {{end}}</nav>{{end}}
{{if eq .Path "/login"}}
{{if .Error}}<p>Email ou mot de passe incorrect</p>{{end}}
<form method="post" action="/login">
<input name="email" type="email"> <input name="password" type="password">
<input name="from" type="hidden" value="{{.From}}">
<button>Connexion</button>
</form>
{{else if eq .Path "/access-denied"}}<p>Accès refusé</p>
{{else}}<h1>{{.Title}}</h1>{{end}}
`))

type page struct {
	Title string
	Path  string
	User  *goGate.Principal
	Menu  []goGate.Requirement
	Error bool
	From  string
}

func pageHandler(engine *goGate.Engine) http.Handler {
	titles := make(map[string]string)
	for _, r := range engine.Routes() {
		titles[r.Path] = r.Title
	}
	returnParam := engine.Config().Cookie.ReturnParam

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := middleware.PrincipalFromContext(r.Context())
		data := page{
			Title: titles[r.URL.Path],
			Path:  r.URL.Path,
			User:  p,
			Menu:  engine.Menu(p),
			Error: r.URL.Query().Get(middleware.LoginErrorParam) != "",
			From:  r.URL.Query().Get(returnParam),
		}
		if data.Title == "" {
			data.Title = "goGate"
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, data); err != nil {
			engine.Logger().Warn("render page", zap.Error(err))
		}
	})
}

func layoutHandler(engine *goGate.Engine, rdb redis.UniversalClient) http.Handler {
	prefix := engine.Config().Session.RedisPrefix

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		prefs, err := engine.Preferences(redisstore.New(rdb, prefix, p.ID, 0))
		if err != nil {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		ctx := r.Context()

		switch r.Method {
		case http.MethodGet:
			layout, err := prefs.Load(ctx, p.ID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, http.StatusOK, layout)
		case http.MethodPut:
			body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
			if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			layout, err := prefs.Save(ctx, p.ID, body)
			if errors.Is(err, preferences.ErrInvalidLayout) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, http.StatusOK, layout)
		case http.MethodDelete:
			if err := prefs.Reset(ctx, p.ID); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
