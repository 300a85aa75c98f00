package components

import (
	"strconv"

	"github.com/phenix/musicbox/console"
	"github.com/phenix/musicbox/events"
	"github.com/phenix/musicbox/runtime"
	"github.com/phenix/musicbox/vdom"
)

const (
	// Title is the fixed heading text.
	Title = "Phenix Music Box"

	// TitleClass renders the heading in red.
	TitleClass = "text-red-500"

	// ContainerClass is applied to the root element.
	ContainerClass = "container"
)

// CountLabel is the button text for a given count.
func CountLabel(count int) string {
	return "The count is " + strconv.Itoa(count)
}

// MusicBox is the application view: a heading and a click counter.
// Count only changes through Increment.
type MusicBox struct {
	runtime.ComponentBase

	Count int
}

func (m *MusicBox) OnInit() {
	console.Log("MusicBox mounted")
}

// OnDestroy drops the counter with the instance, so a remount starts from zero.
func (m *MusicBox) OnDestroy() {
	m.Count = 0
	console.Log("MusicBox unmounted")
}

// Increment adds one to the counter and re-renders.
func (m *MusicBox) Increment() {
	m.Count++
	m.StateHasChanged()
}

func (m *MusicBox) Render(r runtime.Renderer) *vdom.VNode {
	return vdom.Div(map[string]any{"class": ContainerClass},
		vdom.H1(Title, map[string]any{"class": vdom.Class(TitleClass)}),
		vdom.Button(CountLabel(m.Count), map[string]any{
			"type":    "button",
			"onClick": events.AdaptNoArgEvent(m.Increment),
		}),
	)
}
