//go:build !wasm
// +build !wasm

package events

// Stub file for non-WASM builds. Tests want handler panics to surface,
// so the handler is returned unchanged.

// AdaptNoArgEvent returns handler as is.
func AdaptNoArgEvent(handler func()) func() {
	return handler
}
