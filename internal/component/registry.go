// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web hands every
// component the shared router via Routes() and, after startup, invokes
// Init() when the component implements the Initializer interface.

package component

import (
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/maktab-dev/maktab/internal/core"
)

// Initializer is optional.  If a Component implements it, cmd/web calls
// Init(app) once after the application is assembled.
type Initializer interface {
	Init(*core.App) error
}

// Component contract.
//
// Routes() attaches BOTH page and API endpoints to the shared router, e.g:
//
//	r.Get("/signin", c.getSignIn)
//	r.Route("/api", func(api chi.Router) { ... })
//
// Components own disjoint path sets, so attaching to one router is safe.
type Component interface {
	Name() string
	Routes(*core.App, chi.Router)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component in arbitrary order.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	return out
}
