//go:build js || wasm
// +build js wasm

// Package domtest installs a minimal in-memory document on the JS global
// object so DOM rendering can be tested under a wasm test runner (node),
// where no browser document exists.
package domtest

import "syscall/js"

// The fake covers exactly the DOM surface vdom uses.
const fakeDocument = `(() => {
  class NodeList {
    constructor() { this.arr = []; }
    get length() { return this.arr.length; }
    item(i) { return i < this.arr.length ? this.arr[i] : null; }
  }
  class FakeNode {
    constructor(tag, text) {
      this.tagName = tag;
      this.nodeValue = tag === "#text" ? text : null;
      this.childNodes = new NodeList();
      this.attributes = {};
      this.listeners = {};
      this.parentNode = null;
    }
    get firstChild() { return this.childNodes.item(0); }
    detach(c) { if (c.parentNode) { c.parentNode.removeChild(c); } }
    appendChild(c) { this.detach(c); c.parentNode = this; this.childNodes.arr.push(c); return c; }
    insertBefore(c, ref) {
      this.detach(c);
      const i = this.childNodes.arr.indexOf(ref);
      if (i < 0) { return this.appendChild(c); }
      c.parentNode = this;
      this.childNodes.arr.splice(i, 0, c);
      return c;
    }
    removeChild(c) {
      const i = this.childNodes.arr.indexOf(c);
      if (i >= 0) { this.childNodes.arr.splice(i, 1); }
      c.parentNode = null;
      return c;
    }
    replaceChild(n, o) {
      this.detach(n);
      const i = this.childNodes.arr.indexOf(o);
      this.childNodes.arr[i] = n;
      n.parentNode = this;
      o.parentNode = null;
      return o;
    }
    setAttribute(k, v) { this.attributes[k] = String(v); }
    removeAttribute(k) { delete this.attributes[k]; }
    getAttribute(k) { return k in this.attributes ? this.attributes[k] : null; }
    addEventListener(t, f) { (this.listeners[t] = this.listeners[t] || []).push(f); }
    removeEventListener(t, f) {
      const l = this.listeners[t] || [];
      const i = l.indexOf(f);
      if (i >= 0) { l.splice(i, 1); }
    }
    listenerCount(t) { return (this.listeners[t] || []).length; }
    dispatch(t) { for (const f of (this.listeners[t] || []).slice()) { f({ type: t }); } }
    get textContent() {
      if (this.tagName === "#text") { return this.nodeValue; }
      return this.childNodes.arr.map((c) => c.textContent).join("");
    }
    set textContent(v) {
      for (const c of this.childNodes.arr) { c.parentNode = null; }
      this.childNodes.arr = [];
      if (v !== "") { this.appendChild(new FakeNode("#text", String(v))); }
    }
    set innerHTML(v) { this.textContent = ""; }
    find(id) {
      if (this.attributes.id === id) { return this; }
      for (const c of this.childNodes.arr) {
        const f = c.find(id);
        if (f) { return f; }
      }
      return null;
    }
  }
  const body = new FakeNode("body");
  globalThis.document = {
    body: body,
    createElement: (tag) => new FakeNode(tag),
    createTextNode: (text) => new FakeNode("#text", text),
    querySelector: (sel) => (sel.startsWith("#") ? body.find(sel.slice(1)) : null),
  };
})()`

// Install replaces globalThis.document with a fresh fake and returns its body.
func Install() js.Value {
	js.Global().Call("eval", fakeDocument)
	return js.Global().Get("document").Get("body")
}

// Mount appends an element with the given id to body and returns it.
func Mount(body js.Value, id string) js.Value {
	el := js.Global().Get("document").Call("createElement", "div")
	el.Call("setAttribute", "id", id)
	body.Call("appendChild", el)
	return el
}

// Uninstall removes the fake document.
func Uninstall() {
	js.Global().Delete("document")
}

// Child returns the i-th child node of el.
func Child(el js.Value, i int) js.Value {
	return el.Get("childNodes").Call("item", i)
}

// Click dispatches a click to every listener on el.
func Click(el js.Value) {
	el.Call("dispatch", "click")
}

// Text returns el.textContent.
func Text(el js.Value) string {
	return el.Get("textContent").String()
}

// Listeners returns the number of listeners of the given type on el.
func Listeners(el js.Value, typ string) int {
	return el.Call("listenerCount", typ).Int()
}
