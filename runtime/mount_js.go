//go:build js || wasm
// +build js wasm

package runtime

import "syscall/js"

// MountSelectorFromPage reads MountGlobal from window, falling back when it is
// missing or not an id selector.
func MountSelectorFromPage(fallback string) string {
	v := js.Global().Get(MountGlobal)
	if v.Type() != js.TypeString {
		return fallback
	}
	return ResolveMountSelector(v.String(), fallback)
}
