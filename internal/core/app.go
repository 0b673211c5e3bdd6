// internal/core/app.go
//
// Process-wide application aggregate.
//
// Context
// -------
// One App is assembled in cmd/web and handed to every component's Routes().
// It bundles the hosted-backend clients, the lookup cache, the validator
// registry, and the session machinery, so components never construct
// collaborators themselves and tests can inject fakes wholesale.
//
// Notes
// -----
// • Components must treat every field as read-only.
// • Oxford commas, two spaces after periods.
package core

import (
	"github.com/maktab-dev/maktab/internal/backend"
	"github.com/maktab-dev/maktab/internal/config"
	"github.com/maktab-dev/maktab/internal/lookup"
	"github.com/maktab-dev/maktab/internal/session"
	"github.com/maktab-dev/maktab/internal/validate"
)

// App is the dependency bundle shared by all components.
type App struct {
	Config     *config.Config
	Auth       backend.AuthAPI
	Data       backend.DataAPI
	Storage    backend.StorageAPI
	Lookups    *lookup.Cache
	Validators *validate.Registry
	Sessions   *session.Manager
	Gate       *session.Gate
	Watcher    *backend.GroupWatcher
}
