package vdom

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToHTMLNode converts a VNode tree into an x/net/html node tree.
// Event handlers are dropped; attributes are emitted in key order so output is stable.
func ToHTMLNode(n *VNode) *html.Node {
	if n == nil {
		return nil
	}

	if n.Tag == TextTag {
		return &html.Node{Type: html.TextNode, Data: n.Content}
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
		Attr:     htmlAttributes(n.Attributes),
	}

	if n.Content != "" {
		el.AppendChild(&html.Node{Type: html.TextNode, Data: n.Content})
	}
	for _, child := range n.Children {
		if c := ToHTMLNode(child); c != nil {
			el.AppendChild(c)
		}
	}
	return el
}

func htmlAttributes(attrs map[string]any) []html.Attribute {
	if len(attrs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		if isEventAttribute(k) {
			continue
		}
		switch v := attrs[k].(type) {
		case bool:
			if v {
				out = append(out, html.Attribute{Key: k})
			}
		case string:
			out = append(out, html.Attribute{Key: k, Val: v})
		case nil:
		default:
			out = append(out, html.Attribute{Key: k, Val: fmt.Sprint(v)})
		}
	}
	return out
}

// isEventAttribute reports keys like onClick/onInput that carry handlers, not markup.
func isEventAttribute(key string) bool {
	return len(key) > 2 && key[0] == 'o' && key[1] == 'n'
}

// RenderHTML writes the HTML serialisation of n to w.
func RenderHTML(w io.Writer, n *VNode) error {
	node := ToHTMLNode(n)
	if node == nil {
		return nil
	}
	if err := html.Render(w, node); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// RenderHTMLString is RenderHTML into a string.
func RenderHTMLString(n *VNode) (string, error) {
	var b strings.Builder
	if err := RenderHTML(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}
