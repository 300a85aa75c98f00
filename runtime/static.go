package runtime

import (
	"github.com/phenix/musicbox/vdom"
)

// StaticRenderer renders a component once, outside the browser. It backs
// server-side pre-rendering: state changes are ignored and navigation fails.
type StaticRenderer struct{}

var _ Renderer = StaticRenderer{}

// Render runs the component lifecycle up to its first render and returns the tree.
func (s StaticRenderer) Render(c Component) *vdom.VNode {
	c.SetRenderer(s)
	if initializer, ok := c.(Initializer); ok {
		initializer.OnInit()
	}
	if receiver, ok := c.(ParameterReceiver); ok {
		receiver.OnParametersSet()
	}
	return c.Render(s)
}

// RenderChild renders child without retaining it.
func (s StaticRenderer) RenderChild(key string, child Component) *vdom.VNode {
	node := s.Render(child)
	if node != nil {
		node.ComponentKey = key
	}
	return node
}

// ReRender is a no-op.
func (StaticRenderer) ReRender() {}

// Navigate always fails with ErrNoRouter.
func (StaticRenderer) Navigate(string) error { return ErrNoRouter }

// RenderToString pre-renders c as HTML.
func RenderToString(c Component) (string, error) {
	return vdom.RenderHTMLString(StaticRenderer{}.Render(c))
}
