// internal/config/model.go
//
// Typed configuration model for Maktab.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `MAKTAB_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *after* unmarshalling, so the rest of the app
// never stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "strings"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// App section
//

// App holds the public-facing identity of this deployment.  BaseURL is the
// absolute origin stamped into magic-link redirects, so it must match what
// the auth service is allowed to redirect to.
type App struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Title   string `koanf:"title"`
}

//
// Backend section
//

// Backend points at the hosted auth and storage service.  APIKey may be a
// `vault:` URI; the loader resolves it before anything reads it.
type Backend struct {
	BaseURL     string `koanf:"base_url"     validate:"required,url"`
	APIKey      string `koanf:"api_key"      validate:"required"`
	ImageBucket string `koanf:"image_bucket" validate:"required"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host, port,
// or flags without touching Vault.  The *secret* portion (`Password`) is
// stored in Vault and injected at runtime, keeping credentials out of flat
// files and git history.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password"`
}

// ResolvedDSN substitutes the `{password}` placeholder in the DSN template.
// A template without the placeholder is returned unchanged, so fully inline
// DSNs keep working on dev machines.
func (d Database) ResolvedDSN() string {
	return strings.ReplaceAll(d.DSN, "{password}", d.Password)
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or MAKTAB_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // MAKTAB_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	App      App      `koanf:"app"`
	Backend  Backend  `koanf:"backend"`
	Database Database `koanf:"database"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
