// components/nav/nav.go
//
// Maktab nav component – owns the navbar widget and its templates.  It
// mounts no routes of its own.
//
//------------------------------------------------------------------------------

package nav

import (
	"github.com/go-chi/chi/v5"

	"github.com/maktab-dev/maktab/internal/component"
	"github.com/maktab-dev/maktab/internal/core"

	// Widget registration side effect.
	_ "github.com/maktab-dev/maktab/components/nav/widgets"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component carries the navbar widget.
type Component struct{}

// Name returns the canonical component key.
func (c *Component) Name() string { return "nav" }

// Routes attaches nothing; nav contributes widgets only.
func (c *Component) Routes(*core.App, chi.Router) {}

// Register component at program start.
func init() { component.Register(&Component{}) }
