//go:build (js || wasm) && !dev
// +build js wasm
// +build !dev

package runtime

import (
	"fmt"

	"github.com/phenix/musicbox/console"
)

// recoverLifecycle logs a panic raised by a lifecycle hook instead of crashing the app.
func recoverLifecycle(hook, key string) {
	if rec := recover(); rec != nil {
		console.Error(fmt.Sprintf("%s panic in component %s: %v", hook, key, rec))
	}
}

// callOnInit invokes OnInit, recovering panics in production mode.
func (r *RendererImpl) callOnInit(initializer Initializer, key string) {
	defer recoverLifecycle("OnInit", key)
	initializer.OnInit()
}

// callOnParametersSet invokes OnParametersSet, recovering panics in production mode.
func (r *RendererImpl) callOnParametersSet(receiver ParameterReceiver, key string) {
	defer recoverLifecycle("OnParametersSet", key)
	receiver.OnParametersSet()
}

// callOnDestroy invokes OnDestroy, recovering panics in production mode.
func (r *RendererImpl) callOnDestroy(cleaner Cleaner, key string) {
	defer recoverLifecycle("OnDestroy", key)
	cleaner.OnDestroy()
}
