//go:build (js || wasm) && dev
// +build js wasm
// +build dev

package runtime

// In dev builds lifecycle panics propagate to aid debugging and fast failure.

func (r *RendererImpl) callOnInit(initializer Initializer, key string) {
	initializer.OnInit()
}

func (r *RendererImpl) callOnParametersSet(receiver ParameterReceiver, key string) {
	receiver.OnParametersSet()
}

func (r *RendererImpl) callOnDestroy(cleaner Cleaner, key string) {
	cleaner.OnDestroy()
}
