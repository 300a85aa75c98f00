//go:build js || wasm
// +build js wasm

package runtime

import (
	"github.com/phenix/musicbox/vdom"
)

const rootKey = "__root__"

// Compile-time assertion to ensure the concrete RendererImpl implements the Renderer interface.
var _ Renderer = (*RendererImpl)(nil)

// RendererImpl is the browser implementation of the Renderer interface.
// It owns the root component's lifecycle and patches the DOM on every render.
// Children rendered through RenderChild are stateless views of the root's state.
// All calls happen on the JS event loop, so no locking is needed.
type RendererImpl struct {
	currentComponent Component // The currently active root component
	currentKey       string
	initialized      bool
	navManager       NavigationManager // Optional: router for client-side navigation
	mountID          string
	prevVDOM         *vdom.VNode // Previous VDOM tree for patching
}

// NewRenderer creates a new runtime renderer.
// If navManager is nil, the renderer works without routing.
func NewRenderer(navManager NavigationManager, mountID string) *RendererImpl {
	return &RendererImpl{
		navManager: navManager,
		mountID:    mountID,
	}
}

// MountID returns the selector the renderer mounts into.
func (r *RendererImpl) MountID() string {
	return r.mountID
}

// SetCurrentComponent sets the root component to be rendered.
// Swapping to a different key destroys the previous root.
func (r *RendererImpl) SetCurrentComponent(comp Component, key string) {
	if r.currentComponent != nil && r.currentKey != key {
		if cleaner, ok := r.currentComponent.(Cleaner); ok {
			r.callOnDestroy(cleaner, rootKey)
		}
		r.currentComponent.SetRenderer(nil)
		r.initialized = false
	}
	r.currentComponent = comp
	r.currentKey = key
}

// RenderRoot starts the rendering process for the entire application.
func (r *RendererImpl) RenderRoot() {
	if r.currentComponent == nil {
		return
	}

	r.currentComponent.SetRenderer(r)

	if !r.initialized {
		if initializer, ok := r.currentComponent.(Initializer); ok {
			r.callOnInit(initializer, rootKey)
		}
		r.initialized = true
	}

	if paramReceiver, ok := r.currentComponent.(ParameterReceiver); ok {
		r.callOnParametersSet(paramReceiver, rootKey)
	}

	newVDOM := r.currentComponent.Render(r)
	if newVDOM != nil {
		newVDOM.ComponentKey = r.currentKey
	}

	if r.prevVDOM == nil {
		// Initial render: clear (including any server pre-render) and render fresh
		vdom.Clear(r.mountID, nil)
		vdom.RenderToSelector(r.mountID, newVDOM)
	} else {
		vdom.Patch(r.mountID, r.prevVDOM, newVDOM)
	}

	r.prevVDOM = newVDOM
}

// RenderChild renders a child component in place. Children are not retained
// between renders, so they must not hold state of their own.
func (r *RendererImpl) RenderChild(key string, child Component) *vdom.VNode {
	child.SetRenderer(r)
	node := child.Render(r)
	if node != nil {
		node.ComponentKey = key
	}
	return node
}

// ReRender patches the DOM with minimal changes.
func (r *RendererImpl) ReRender() {
	r.RenderRoot()
}

// Navigate delegates to the NavigationManager.
func (r *RendererImpl) Navigate(path string) error {
	if r.navManager == nil {
		return ErrNoRouter
	}
	return r.navManager.Navigate(path)
}
