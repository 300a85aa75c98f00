// Package testcomponents provides an in-memory renderer for exercising
// components without a browser or WASM.
package testcomponents

import (
	"fmt"

	"github.com/phenix/musicbox/runtime"
	"github.com/phenix/musicbox/vdom"
)

// TestRenderer is a minimal test harness that implements runtime.Renderer.
//
// It captures VDOM output from component renders and allows tests to:
// - Attach components to the renderer
// - Trigger re-renders via StateHasChanged()
// - Dispatch clicks against the current tree
// - Inspect the resulting VDOM tree
type TestRenderer struct {
	currentVDOM *vdom.VNode
	component   runtime.Component
	renders     int
	initialized bool
	navigated   []string
}

// Compile-time assertion to ensure TestRenderer implements runtime.Renderer interface.
var _ runtime.Renderer = (*TestRenderer)(nil)

// NewTestRenderer creates a test renderer attached to the given component.
func NewTestRenderer(comp runtime.Component) *TestRenderer {
	r := &TestRenderer{
		component: comp,
	}
	comp.SetRenderer(r)
	return r
}

// RenderRoot performs the initial render of the component.
func (r *TestRenderer) RenderRoot() *vdom.VNode {
	r.render()
	return r.currentVDOM
}

// ReRender performs a re-render of the component.
// This is called by StateHasChanged() when the component requests a re-render.
func (r *TestRenderer) ReRender() {
	r.render()
}

func (r *TestRenderer) render() {
	if !r.initialized {
		if initializer, ok := r.component.(runtime.Initializer); ok {
			initializer.OnInit()
		}
		r.initialized = true
	}
	if receiver, ok := r.component.(runtime.ParameterReceiver); ok {
		receiver.OnParametersSet()
	}
	r.currentVDOM = r.component.Render(r)
	r.renders++
}

// Unmount runs OnDestroy and detaches the component, as the browser renderer
// does when the component leaves the tree.
func (r *TestRenderer) Unmount() {
	if cleaner, ok := r.component.(runtime.Cleaner); ok {
		cleaner.OnDestroy()
	}
	r.component.SetRenderer(nil)
	r.currentVDOM = nil
	r.initialized = false
}

// GetCurrentVDOM returns the most recently rendered VDOM tree.
func (r *TestRenderer) GetCurrentVDOM() *vdom.VNode {
	return r.currentVDOM
}

// RenderCount reports how many times the component has rendered.
func (r *TestRenderer) RenderCount() int {
	return r.renders
}

// Click finds the first node in the current tree matching match and invokes its OnClick.
func (r *TestRenderer) Click(match func(*vdom.VNode) bool) error {
	target := vdom.Find(r.currentVDOM, match)
	if target == nil {
		return fmt.Errorf("click: no matching node in current tree")
	}
	if target.OnClick == nil {
		return fmt.Errorf("click: <%s> has no click handler", target.Tag)
	}
	target.OnClick()
	return nil
}

// RenderChild renders a child directly; instances are not retained between renders.
func (r *TestRenderer) RenderChild(key string, child runtime.Component) *vdom.VNode {
	child.SetRenderer(r)
	node := child.Render(r)
	if node != nil {
		node.ComponentKey = key
	}
	return node
}

// Navigate records the path so tests can assert on it.
func (r *TestRenderer) Navigate(path string) error {
	r.navigated = append(r.navigated, path)
	return nil
}

// Navigations returns the paths passed to Navigate, in order.
func (r *TestRenderer) Navigations() []string {
	return r.navigated
}
