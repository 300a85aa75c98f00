//go:build js || wasm

package events

import (
	"fmt"

	"github.com/phenix/musicbox/console"
)

// AdaptNoArgEvent wraps a no-argument handler for use as a VNode OnClick.
// A panic inside the handler is logged instead of killing the WASM program.
func AdaptNoArgEvent(handler func()) func() {
	if handler == nil {
		return nil
	}
	return func() {
		defer func() {
			if rec := recover(); rec != nil {
				console.Error("event handler panic:", fmt.Sprint(rec))
			}
		}()
		handler()
	}
}
