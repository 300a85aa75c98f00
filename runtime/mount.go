package runtime

import "strings"

// MountGlobal is the window property a host page sets to tell the WASM
// entry point which element to mount into.
const MountGlobal = "__mountSelector"

// DefaultMountSelector is used when the host page does not say otherwise.
const DefaultMountSelector = "#app"

// ResolveMountSelector returns raw when it is an id selector such as "#root",
// and fallback otherwise.
func ResolveMountSelector(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '#' || strings.ContainsAny(raw, " \t>.,[:") {
		return fallback
	}
	return raw
}
