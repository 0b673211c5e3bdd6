// components/nav/widgets/navbar.go
//
// Navbar widget — renders the site navigation from the current session.
package widgets

import (
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/routing"
	"github.com/maktab-dev/maktab/internal/view"
	"github.com/maktab-dev/maktab/internal/widget"
)

// compile-time assertion
var _ widget.Widget = (*Navbar)(nil)

// Navbar implements widget.Widget.
type Navbar struct{}

func (n *Navbar) ID() string { return "nav/navbar" }

// Render converts ctx to *core.Context, builds data, and returns the
// rendered HTML string plus cache policy.
func (n *Navbar) Render(ctx any, params map[string]any) (string, int, error) {
	rctx, ok := ctx.(*core.Context)
	if !ok {
		return "", int(view.CacheSkip), nil
	}

	active, _ := params["active"].(string)
	data := map[string]any{
		"Ctx":         rctx,
		"SignedIn":    rctx.SignedIn,
		"Session":     rctx.Session,
		"IsAdmin":     rctx.SignedIn && rctx.Session.IsAdmin(),
		"ProfileHref": rctx.Session.ProfilePath(),
		"GroupHref":   routing.BuildPath("group", routing.MakeSlug(rctx.Session.Group)),
		"Active":      active,
	}

	html, policy, err := view.RenderToString(rctx, "nav", "widgets/navbar", data)
	return string(html), int(policy), err
}

func init() { widget.Register(&Navbar{}) }
