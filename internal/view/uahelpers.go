// internal/view/uahelpers.go
//
// User-Agent-related template helpers.  They key off *core.Context so
// templates can branch on device class without reaching into the raw
// request.
package view

import (
	"html/template"

	"github.com/maktab-dev/maktab/internal/core"
)

// uaFuncMap returns helpers keyed off *core.Context.
func uaFuncMap() template.FuncMap {
	return template.FuncMap{
		"browser":        func(c *core.Context) string { return c.Info.UA.Browser },
		"browserVersion": func(c *core.Context) string { return c.Info.UA.Version },
		"os":             func(c *core.Context) string { return c.Info.UA.OS },
		"osVersion":      func(c *core.Context) string { return c.Info.UA.OSVersion },
		"device":         func(c *core.Context) string { return c.Info.UA.Device },
		"platform":       func(c *core.Context) string { return c.Info.UA.Platform },
		"isBot":          func(c *core.Context) bool { return c.Info.UA.IsBot },
	}
}
