package imui

import "fmt"

// PlotLines draws values as a line graph scaled to their own range.
// Hovering the graph shows the value under the mouse.
//
// Usage:
//
//	ctx.PlotLines("Frame ms", ctx.FrameTimes(), 48)
func (c *Context) PlotLines(label string, values []float32, height float32) {
	w := c.win()
	if w == nil || w.skip {
		return
	}
	s := &c.style
	pos := w.itemPos()
	width := c.itemWidth(w)
	r := Rect{X: pos.X, Y: pos.Y, W: width, H: height}

	c.addRect(w.dl, r, s.FrameBgColor)
	if len(values) >= 2 {
		lo, hi := values[0], values[0]
		for _, v := range values[1:] {
			lo, hi = min(lo, v), max(hi, v)
		}
		if hi == lo {
			hi = lo + 1
		}
		step := width / float32(len(values)-1)
		y := func(v float32) float32 { return r.Y + r.H - (v-lo)/(hi-lo)*r.H }
		for i := 1; i < len(values); i++ {
			x0 := r.X + float32(i-1)*step
			w.dl.AddLine(x0, y(values[i-1]), x0+step, y(values[i]), s.PlotLineColor, 1, c.font.White)
		}

		id := c.GetID(label)
		if c.isHovered(id, r) {
			i := int((c.io.MousePos.X-r.X)/step + 0.5)
			i = min(max(i, 0), len(values)-1)
			hx := r.X + float32(i)*step
			w.dl.AddLine(hx, r.Y, hx, r.Y+r.H, s.TextDisabledColor, 1, c.font.White)
			tip := fmt.Sprintf("%d: %.2f", i, values[i])
			c.drawTooltip(c.io.MousePos.X+12, c.io.MousePos.Y-c.frameHeight(), tip)
		}
	}
	c.addOutline(w.dl, r, s.FrameBorderColor)

	size := Vec2{X: width, Y: height}
	if text := displayLabel(label); text != "" {
		c.addText(w.dl, r.X+r.W+s.ItemSpacing, r.Y, text, s.TextColor)
		size.X += s.ItemSpacing + c.MeasureText(text).X
	}
	c.advance(w, size)
}

// drawTooltip draws text in a box on the foreground list, kept inside the
// display.
func (c *Context) drawTooltip(x, y float32, text string) {
	s := &c.style
	size := c.MeasureText(text)
	box := Rect{X: x, Y: y, W: size.X + s.FramePadding*2, H: size.Y + s.FramePadding*2}
	box.X = max(min(box.X, c.io.DisplaySize.X-box.W), 0)
	box.Y = max(box.Y, 0)
	c.addRect(c.fg, box, s.PopupBgColor)
	c.addOutline(c.fg, box, s.WindowBorderColor)
	c.addText(c.fg, box.X+s.FramePadding, box.Y+s.FramePadding, text, s.TextColor)
}
