// cmd/web/main.go
//
// Maktab – HTTP entry point.
//
// Startup sequence
// ----------------
//
//  1. Load env vars (server-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load typed configuration, resolving `vault:` URIs when a Vault
//     client can be built.
//
//  4. Open the relational store and construct the hosted-backend clients
//     (auth, data, object storage).
//
//  5. Assemble the core.App: lookup cache, validators, session manager,
//     gate, and the group watcher.
//
//  6. Attach every registered component to the shared router, plus the
//     Prometheus /metrics endpoint.
//
//  7. Wrap the router with request-info enrichment, security headers, and
//     (when configured) HTTPS enforcement, then serve with hardened
//     timeouts.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maktab-dev/maktab/internal/backend"
	"github.com/maktab-dev/maktab/internal/component"
	"github.com/maktab-dev/maktab/internal/config"
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/database"
	"github.com/maktab-dev/maktab/internal/logger"
	"github.com/maktab-dev/maktab/internal/lookup"
	"github.com/maktab-dev/maktab/internal/middleware"
	"github.com/maktab-dev/maktab/internal/requestinfo"
	"github.com/maktab-dev/maktab/internal/server"
	"github.com/maktab-dev/maktab/internal/session"
	"github.com/maktab-dev/maktab/internal/validate"
	"github.com/maktab-dev/maktab/internal/vault"

	// Component registration side effects.
	_ "github.com/maktab-dev/maktab/components/auth"
	_ "github.com/maktab-dev/maktab/components/contact"
	_ "github.com/maktab-dev/maktab/components/debug"
	_ "github.com/maktab-dev/maktab/components/groups"
	_ "github.com/maktab-dev/maktab/components/home"
	_ "github.com/maktab-dev/maktab/components/nav"
	_ "github.com/maktab-dev/maktab/components/profile"
	_ "github.com/maktab-dev/maktab/components/signup"
	_ "github.com/maktab-dev/maktab/components/students"
)

const serverEnvPath = "/usr/local/etc/maktab/global.env"

// groupPollInterval is how often the watcher diffs the group directory.
const groupPollInterval = 15 * time.Second

// loadEnv prefers the server-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	//
	// ── 1.  Configuration (with optional Vault resolution) ─────────────
	//
	var resolve config.SecretResolver
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx, logOut.Infof)
		if err != nil {
			logOut.Fatalf("vault client: %v", err)
		}
		resolve = vc.Resolve
	}
	cfg, err := config.Load(resolve)
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Relational store ────────────────────────────────────────────
	//
	logOut.Infow("connecting to database")
	db, err := database.Open(cfg.Database.ResolvedDSN())
	if err != nil {
		logOut.Fatalf("connect database: %v", err)
	}
	defer db.Close()
	logOut.Infow("database online")

	//
	// ── 3.  Hosted-backend clients ──────────────────────────────────────
	//
	auth := backend.NewAuthClient(cfg.Backend.BaseURL, cfg.Backend.APIKey)
	data := backend.NewSQLStore(db)
	storage := backend.NewStorageClient(cfg.Backend.BaseURL, cfg.Backend.APIKey, cfg.Backend.ImageBucket)

	//
	// ── 4.  Application assembly ────────────────────────────────────────
	//
	lookups := lookup.New(data, lookup.DefaultTTL)
	sessions := session.NewManager(auth, session.IdleTTL, session.MaxEntries)
	defer sessions.Stop()

	watcher := backend.NewGroupWatcher(data, groupPollInterval)
	watcher.Start(ctx)

	app := &core.App{
		Config:     cfg,
		Auth:       auth,
		Data:       data,
		Storage:    storage,
		Lookups:    lookups,
		Validators: validate.NewRegistry(lookups),
		Sessions:   sessions,
		Gate:       session.NewGate(sessions),
		Watcher:    watcher,
	}

	//
	// ── 5.  Router: components + metrics ────────────────────────────────
	//
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	for _, c := range component.All() {
		logOut.Infow("mounting component", "name", c.Name())
		c.Routes(app, r)
		if ini, ok := c.(component.Initializer); ok {
			if err := ini.Init(app); err != nil {
				logOut.Fatalf("init component %s: %v", c.Name(), err)
			}
		}
	}

	//
	// ── 6.  Middleware chain and hardened server ────────────────────────
	//
	var handler http.Handler = r
	handler = middleware.Security(handler)
	handler = requestinfo.Enrich(handler)
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(handler)
	}

	srv := server.New(cfg.HTTP.ListenAddr, handler)
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
}
