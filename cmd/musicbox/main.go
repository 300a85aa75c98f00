//go:build js || wasm

package main

import (
	"github.com/phenix/musicbox/internal/app/components"
	"github.com/phenix/musicbox/runtime"
)

func main() {
	box := &components.MusicBox{}

	// The host page publishes its configured mount element before loading us.
	mountID := runtime.MountSelectorFromPage(runtime.DefaultMountSelector)

	// No router: the app is a single view.
	renderer := runtime.NewRenderer(nil, mountID)

	renderer.SetCurrentComponent(box, "musicbox")
	renderer.ReRender()

	// Keep the Go program running
	select {}
}
