package imui

import (
	"fmt"
	"unicode"

	"github.com/go-theft-auto/imbridge"
)

var demoModes = []string{"Walk", "Drive", "Fly"}

type demoState struct {
	clicks   int
	enabled  bool
	speed    float32
	position [3]float32
	count    int32
	grid     [3]int32
	scale    float32
	offset   [3]float32
	drag     float32
	dragInt  int32
	tint     [4]float32
	name     string
	mode     int
}

func newDemoState() demoState {
	return demoState{
		enabled: true,
		speed:   0.5,
		count:   3,
		scale:   1,
		tint:    [4]float32{0.26, 0.59, 0.98, 1},
		name:    "player",
	}
}

// ShowDemoWindow draws a window exercising every widget.
func (c *Context) ShowDemoWindow(open *bool) {
	if c.win() == nil {
		return
	}
	d := &c.demo
	defer c.End()
	if !c.Begin("Demo", open) {
		return
	}
	c.Text("imui widget demo")
	c.Separator()

	if c.CollapsingHeader("Basics", true) {
		if c.Button("Click me") {
			d.clicks++
		}
		c.Text(fmt.Sprintf("clicked %d times", d.clicks))
		c.TextWrapped("Widgets draw into the frame being built; the bridge copies it when the frame ends and replays it on the render thread.")
		c.Checkbox("Enabled", &d.enabled)
		c.InputText("Name", &d.name, func(ev *imbridge.InputTextEvent) bool {
			// Names are lower case.
			ev.Char = unicode.ToLower(ev.Char)
			return false
		})
	}
	if c.CollapsingHeader("Sliders", false) {
		c.SliderFloat("Speed", &d.speed, 0, 1)
		c.SliderFloat3("Position", &d.position, -10, 10)
		c.SliderInt("Count", &d.count, 0, 10)
		c.SliderInt3("Grid", &d.grid, 0, 16)
	}
	if c.CollapsingHeader("Inputs", false) {
		c.InputFloat("Scale", &d.scale)
		c.InputFloat3("Offset", &d.offset)
		c.DragFloat("Drag", &d.drag)
		c.DragInt("Drag int", &d.dragInt)
		c.ColorEdit4("Tint", &d.tint)
	}
	if c.CollapsingHeader("Combo", false) {
		if c.BeginCombo("Mode", demoModes[d.mode]) {
			for i, m := range demoModes {
				if c.Selectable(m, i == d.mode) {
					d.mode = i
				}
			}
			c.EndCombo()
		}
	}
	if c.CollapsingHeader("Table", false) {
		if c.BeginTable("demo", 2) {
			for i, m := range demoModes {
				c.TableNextRow()
				c.TableSetColumnIndex(0)
				c.Text(m)
				c.TableSetColumnIndex(1)
				c.Text(fmt.Sprintf("%d", i))
			}
			c.EndTable()
		}
	}
}

// ShowMetricsWindow draws statistics about the previous frame.
func (c *Context) ShowMetricsWindow(open *bool) {
	if c.win() == nil {
		return
	}
	defer c.End()
	if !c.Begin("Metrics", open) {
		return
	}
	m := c.metrics
	fps := float32(0)
	if c.io.DeltaTime > 0 {
		fps = 1 / c.io.DeltaTime
	}
	c.Text(fmt.Sprintf("%.1f FPS (%.2f ms)", fps, c.io.DeltaTime*1000))
	c.PlotLines("Frame ms", c.FrameTimes(), 48)
	c.Text(fmt.Sprintf("frame %d", m.Frame))
	c.Text(fmt.Sprintf("%d windows", m.Windows))
	c.Text(fmt.Sprintf("%d vertices, %d indices", m.Vertices, m.Indices))
	c.Text(fmt.Sprintf("%d draw commands", m.Commands))
	c.Text(fmt.Sprintf("%d state entries", m.StateEntries))
	c.Text(fmt.Sprintf("mouse %.0f,%.0f", c.io.MousePos.X, c.io.MousePos.Y))
}
