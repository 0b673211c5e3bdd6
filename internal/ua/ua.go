// internal/ua/ua.go
//
// User-Agent classification for the sign-in audit log and the template
// helpers (browser, os, device).  This wrapper keeps the third-party
// github.com/avct/uasurfer enums out of the rest of the codebase; only this
// file changes if the parser ever does.
package ua

import (
	"fmt"
	"strconv"

	surfer "github.com/avct/uasurfer"
)

// Info is the classified view of one User-Agent header.  Device is one of
// "Desktop", "Mobile", "Tablet", or "Other"; IsBot flags crawlers so they
// never count as sign-in traffic.
type Info struct {
	Browser   string
	Version   string
	OS        string
	OSVersion string
	Device    string
	Platform  string
	IsBot     bool
	Raw       string
}

// Parse classifies the raw header.  uasurfer reuses internal buffers after
// the first call, so parsing is allocation-light on repeat visitors.
func Parse(raw string) Info {
	parsed := surfer.Parse(raw)

	return Info{
		Browser:   parsed.Browser.Name.String(),
		Version:   dotted(parsed.Browser.Version),
		OS:        parsed.OS.Name.String(),
		OSVersion: dotted(parsed.OS.Version),
		Device:    deviceLabel(parsed.DeviceType),
		Platform:  parsed.OS.Platform.String(),
		IsBot:     parsed.IsBot(),
		Raw:       raw,
	}
}

func deviceLabel(t surfer.DeviceType) string {
	switch t {
	case surfer.DeviceComputer:
		return "Desktop"
	case surfer.DeviceTablet:
		return "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		return "Mobile"
	}
	return "Other"
}

// dotted renders a version with trailing zeros trimmed:
// 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func dotted(v surfer.Version) string {
	switch {
	case v.Major == 0 && v.Minor == 0 && v.Patch == 0:
		return ""
	case v.Patch != 0:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	case v.Minor != 0:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}
