package vdom

import "strings"

// TextTag is the pseudo tag used for bare text nodes.
const TextTag = "#text"

// VNode represents a virtual DOM node.
type VNode struct {
	Tag          string         // The HTML tag name
	Attributes   map[string]any // The attributes of the node
	Children     []*VNode       // The child nodes
	Content      string         // The content of the node
	OnClick      func()         // Optional click event handler
	ComponentKey string         // Set on a component's root node so Patch can detect swaps

	eventCallbacks []any
}

// NewVNode creates a new VNode.
func NewVNode(tag string, attributes map[string]any, children []*VNode, content string) *VNode {
	var onClick func()
	if attributes != nil {
		if v, ok := attributes["onClick"]; ok {
			if f, ok := v.(func()); ok {
				onClick = f
				// Remove from attributes so it doesn't get rendered as an HTML attribute
				delete(attributes, "onClick")
			}
		}
	}
	return &VNode{
		Tag:        tag,
		Attributes: attributes,
		Children:   children,
		Content:    content,
		OnClick:    onClick,
	}
}

// SetContent updates the Content field of the VNode.
func (v *VNode) SetContent(content string) {
	v.Content = content
}

// AddEventCallback stores a browser callback so it can be released on patch.
func (v *VNode) AddEventCallback(cb any) {
	v.eventCallbacks = append(v.eventCallbacks, cb)
}

// GetEventCallbacks returns the callbacks attached to this node.
func (v *VNode) GetEventCallbacks() []any {
	return v.eventCallbacks
}

// ClearEventCallbacks drops all stored callbacks.
func (v *VNode) ClearEventCallbacks() {
	v.eventCallbacks = nil
}

// Class joins CSS class names, skipping empty ones.
func Class(names ...string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " ")
}

// Text creates a bare text node.
func Text(content string) *VNode {
	return NewVNode(TextTag, nil, nil, content)
}

// Paragraph creates a <p> VNode with the given text as its child and allows passing attributes.
func Paragraph(text string, attrs map[string]any) *VNode {
	return NewVNode("p", attrs, nil, text)
}

// Heading creates an <h1>..<h6> VNode. Levels outside 1..6 are clamped.
func Heading(level int, text string, attrs map[string]any) *VNode {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return NewVNode("h"+string(rune('0'+level)), attrs, nil, text)
}

// H1 is shorthand for Heading(1, ...).
func H1(text string, attrs map[string]any) *VNode {
	return Heading(1, text, attrs)
}

// Div creates a <div> VNode with the given children and allows passing attributes.
func Div(attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("div", attrs, children, "")
}

// Button creates a <button> VNode with the given children and allows passing attributes.
func Button(content string, attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("button", attrs, children, content)
}

// Find walks the tree depth first and returns the first node for which match is true.
func Find(n *VNode, match func(*VNode) bool) *VNode {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for _, c := range n.Children {
		if found := Find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// ByTag matches nodes with the given tag.
func ByTag(tag string) func(*VNode) bool {
	return func(n *VNode) bool { return n.Tag == tag }
}

// TextContent returns the visible text of the subtree, like the DOM property.
func TextContent(n *VNode) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(n.Content)
	for _, c := range n.Children {
		b.WriteString(TextContent(c))
	}
	return b.String()
}
