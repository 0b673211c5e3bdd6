// components/groups/groups.go
//
// Maktab groups component – group directory, per-group roster and lessons,
// and a live change feed backed by the group watcher.
//
//------------------------------------------------------------------------------

package groups

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/maktab-dev/maktab/internal/backend"
	"github.com/maktab-dev/maktab/internal/component"
	"github.com/maktab-dev/maktab/internal/core"
	"github.com/maktab-dev/maktab/internal/routing"
	"github.com/maktab-dev/maktab/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the group pages.
type Component struct {
	app *core.App
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "groups" }

// Routes attaches the component’s endpoints to the shared router.  The
// directory and its change feed are staff surfaces; a group page is
// visible to its own members and to admins.
func (c *Component) Routes(app *core.App, r chi.Router) {
	c.app = app
	r.Group(func(gr chi.Router) {
		gr.Use(app.Gate.RequireAdmin)
		gr.Get("/groups", c.handleList)
		gr.Get("/groups/events", c.handleEvents)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(app.Gate.RequireUser)
		gr.Get("/group/{groupName}", c.handleDetail)
	})
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

// groupRow pairs a group with its slugged link for the directory page.
type groupRow struct {
	backend.Group
	Href string
}

func (c *Component) handleList(w http.ResponseWriter, r *http.Request) {
	vctx := core.NewContext(c.app, w, r)
	groups, err := c.app.Data.Groups(r.Context())
	if err != nil {
		zap.S().Errorw("groups list failed", "err", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	rows := make([]groupRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, groupRow{
			Group: g,
			Href:  routing.BuildPath("group", routing.MakeSlug(g.Name)),
		})
	}

	vctx.Head.SetTitle("Groups")
	data := map[string]any{"Ctx": vctx, "Groups": rows, "Session": vctx.Session}
	if err := view.Render(vctx, w, "groups", "list", data, view.CacheSkip); err != nil {
		zap.S().Errorw("render groups", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (c *Component) handleDetail(w http.ResponseWriter, r *http.Request) {
	vctx := core.NewContext(c.app, w, r)
	name := chi.URLParam(r, "groupName")

	g, err := c.resolveGroup(r, name)
	if errors.Is(err, backend.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err == nil && !vctx.Session.IsAdmin() && !strings.EqualFold(vctx.Session.Group, g.Name) {
		// Members see their own group; everyone else gets not-found.
		http.NotFound(w, r)
		return
	}
	if err != nil {
		zap.S().Errorw("group lookup failed", "group", name, "err", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	members, err := c.app.Data.GroupMembers(r.Context(), g.Name)
	if err != nil {
		zap.S().Errorw("group members failed", "group", g.Name, "err", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	lessons, err := c.app.Data.GroupLessons(r.Context(), g.ID)
	if err != nil {
		zap.S().Errorw("group lessons failed", "group", g.Name, "err", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	vctx.Head.SetTitle(g.Name)
	data := map[string]any{
		"Ctx":     vctx,
		"Group":   g,
		"Members": members,
		"Lessons": lessons,
		"Session": vctx.Session,
	}
	if err := view.Render(vctx, w, "groups", "detail", data, view.CacheSkip); err != nil {
		zap.S().Errorw("render group", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// handleEvents streams group directory changes as server-sent events.  The
// directory page listens and refreshes its list without polling.
func (c *Component) handleEvents(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fl.Flush()

	events := make(chan backend.GroupEvent, 8)
	cancel := c.app.Watcher.Subscribe(func(ev backend.GroupEvent) {
		select {
		case events <- ev:
		default: // a slow client drops events rather than the watcher
		}
	})
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			payload, err := json.Marshal(map[string]any{
				"type":   changeLabel(ev.Type),
				"id":     ev.Group.ID,
				"name":   ev.Group.Name,
				"closed": ev.Group.Closed,
			})
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			fl.Flush()
		}
	}
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

// resolveGroup accepts either the exact stored name or its slug, so links
// generated by the directory and links typed by hand both work.
func (c *Component) resolveGroup(r *http.Request, name string) (*backend.Group, error) {
	g, err := c.app.Data.GroupByName(r.Context(), name)
	if err == nil || !errors.Is(err, backend.ErrNotFound) {
		return g, err
	}

	all, err := c.app.Data.Groups(r.Context())
	if err != nil {
		return nil, err
	}
	for i := range all {
		if routing.MakeSlug(all[i].Name) == name {
			return &all[i], nil
		}
	}
	return nil, backend.ErrNotFound
}

func changeLabel(t backend.ChangeType) string {
	switch t {
	case backend.ChangeInsert:
		return "insert"
	case backend.ChangeUpdate:
		return "update"
	case backend.ChangeDelete:
		return "delete"
	}
	return "unknown"
}
