package imui

import (
	"fmt"
	"math"
)

// Drag speeds in value units per pixel.
const (
	dragSpeedFloat = 0.01
	dragSpeedInt   = 0.25
	dragSpeedColor = 1.0 / 255
)

// components lays out n equal-width frames on one line followed by the
// label, and calls item for each inside its own ID scope. It reports
// whether any item changed.
func (c *Context) components(label string, n int, item func(i int, r Rect) bool) bool {
	w := c.win()
	if w == nil || w.skip {
		return false
	}
	pos := w.itemPos()
	text := displayLabel(label)
	width := c.itemWidth(w)
	sp := c.style.ItemSpacing
	each := (width - sp*float32(n-1)) / float32(n)
	h := c.frameHeight()

	changed := false
	c.PushID(label)
	for i := 0; i < n; i++ {
		r := Rect{X: pos.X + float32(i)*(each+sp), Y: pos.Y, W: each, H: h}
		c.PushIDInt(i)
		if item(i, r) {
			changed = true
		}
		c.PopID()
	}
	c.PopID()

	total := width
	if text != "" {
		c.addText(w.dl, pos.X+width+sp, pos.Y+c.style.FramePadding, text, c.style.TextColor)
		total += sp + c.MeasureText(text).X
	}
	c.advance(w, Vec2{X: total, Y: h})
	return changed
}

// frameText draws a frame with centered text.
func (c *Context) frameText(r Rect, text string, bg uint32) {
	w := c.win()
	c.addRect(w.dl, r, bg)
	ts := c.MeasureText(text)
	w.dl.PushClipRect(r.X, r.Y, r.X+r.W, r.Y+r.H)
	c.addText(w.dl, r.X+max((r.W-ts.X)/2, c.style.FramePadding), r.Y+c.style.FramePadding, text, c.style.TextColor)
	w.dl.PopClipRect()
}

func (c *Context) frameColor(hovered, active bool) uint32 {
	switch {
	case active:
		return c.style.FrameActiveColor
	case hovered:
		return c.style.FrameHoveredColor
	}
	return c.style.FrameBgColor
}

// sliderScalar maps the mouse position inside r onto [lo, hi] while the
// slider is held. step > 0 snaps the value.
func (c *Context) sliderScalar(r Rect, v *float64, lo, hi, step float64, format string) bool {
	id := c.CurrentID()
	hovered, held, _ := c.buttonBehavior(id, r)
	grab := c.style.GrabWidth
	changed := false
	if held && hi > lo {
		t := float64((c.io.MousePos.X - r.X - grab/2) / (r.W - grab))
		nv := lo + clamp(t, 0, 1)*(hi-lo)
		if step > 0 {
			nv = lo + math.Round((nv-lo)/step)*step
		}
		nv = clamp(nv, lo, hi)
		if nv != *v {
			*v = nv
			changed = true
		}
	}
	if hovered && !held && c.io.WheelY != 0 && hi > lo {
		s := step
		if s == 0 {
			s = (hi - lo) / 100
		}
		nv := clamp(*v+float64(c.io.WheelY)*s, lo, hi)
		if nv != *v {
			*v = nv
			changed = true
		}
	}

	w := c.win()
	c.addRect(w.dl, r, c.frameColor(hovered, held))
	ratio := float32(0)
	if hi > lo {
		ratio = float32(clamp((*v-lo)/(hi-lo), 0, 1))
	}
	gx := r.X + ratio*(r.W-grab)
	if fill := gx - r.X; fill > 0 {
		c.addRect(w.dl, Rect{X: r.X, Y: r.Y, W: fill, H: r.H}, c.style.SliderFillColor)
	}
	grabColor := c.style.SliderGrabColor
	if held {
		grabColor = c.style.SliderGrabActive
	}
	c.addRect(w.dl, Rect{X: gx, Y: r.Y + 1, W: grab, H: r.H - 2}, grabColor)
	c.frameText(r, fmt.Sprintf(format, *v), 0)
	return changed
}

// dragScalar changes *v by the horizontal mouse travel since the drag
// started. lo < hi clamps the result.
func (c *Context) dragScalar(r Rect, v *float64, speed, lo, hi float64, text func(float64) string) bool {
	id := c.CurrentID()
	st := statePtr(c, id, dragState{})
	hovered, held, pressed := c.buttonBehavior(id, r)
	if pressed {
		st.Active = true
		st.StartX = c.io.MousePos.X
		st.StartValue = *v
	}
	changed := false
	if st.Active {
		if !held {
			st.Active = false
		} else {
			nv := st.StartValue + float64(c.io.MousePos.X-st.StartX)*speed
			if lo < hi {
				nv = clamp(nv, lo, hi)
			}
			if nv != *v {
				*v = nv
				changed = true
			}
		}
	}
	c.frameText(r, text(*v), c.frameColor(hovered, st.Active))
	return changed
}

func formatFloat(v float64) string { return fmt.Sprintf("%.3f", v) }
func formatInt(v float64) string   { return fmt.Sprintf("%d", int64(math.Round(v))) }

// SliderFloat edits *v within [min, max].
func (c *Context) SliderFloat(label string, v *float32, lo, hi float32) bool {
	return c.components(label, 1, func(_ int, r Rect) bool {
		f := float64(*v)
		if !c.sliderScalar(r, &f, float64(lo), float64(hi), 0, "%.3f") {
			return false
		}
		*v = float32(f)
		return true
	})
}

// SliderFloat3 edits three floats within [min, max] on one line.
func (c *Context) SliderFloat3(label string, v *[3]float32, lo, hi float32) bool {
	return c.components(label, 3, func(i int, r Rect) bool {
		f := float64(v[i])
		if !c.sliderScalar(r, &f, float64(lo), float64(hi), 0, "%.2f") {
			return false
		}
		v[i] = float32(f)
		return true
	})
}

// SliderInt edits *v within [min, max].
func (c *Context) SliderInt(label string, v *int32, lo, hi int32) bool {
	return c.components(label, 1, func(_ int, r Rect) bool {
		f := float64(*v)
		if !c.sliderScalar(r, &f, float64(lo), float64(hi), 1, "%.0f") {
			return false
		}
		*v = int32(f)
		return true
	})
}

// SliderInt3 edits three ints within [min, max] on one line.
func (c *Context) SliderInt3(label string, v *[3]int32, lo, hi int32) bool {
	return c.components(label, 3, func(i int, r Rect) bool {
		f := float64(v[i])
		if !c.sliderScalar(r, &f, float64(lo), float64(hi), 1, "%.0f") {
			return false
		}
		v[i] = int32(f)
		return true
	})
}

// DragFloat edits *v by dragging horizontally.
func (c *Context) DragFloat(label string, v *float32) bool {
	return c.components(label, 1, func(_ int, r Rect) bool {
		f := float64(*v)
		if !c.dragScalar(r, &f, dragSpeedFloat, 0, 0, formatFloat) {
			return false
		}
		*v = float32(f)
		return true
	})
}

// DragInt edits *v by dragging horizontally.
func (c *Context) DragInt(label string, v *int32) bool {
	return c.components(label, 1, func(_ int, r Rect) bool {
		f := float64(*v)
		if !c.dragScalar(r, &f, dragSpeedInt, math.MinInt32, math.MaxInt32, formatInt) {
			return false
		}
		n := int32(math.Round(f))
		if n == *v {
			return false
		}
		*v = n
		return true
	})
}

// ColorEdit4 edits an RGBA color as four 0-255 drags plus a swatch.
func (c *Context) ColorEdit4(label string, col *[4]float32) bool {
	w := c.win()
	if w == nil || w.skip {
		return false
	}
	swatch := c.frameHeight()
	// Reserve the swatch on the left of the component row.
	pos := w.itemPos()
	w.cursor.X += swatch + c.style.ItemSpacing
	changed := c.components(label, 4, func(i int, r Rect) bool {
		f := float64(col[i])
		if !c.dragScalar(r, &f, dragSpeedColor, 0, 1, func(v float64) string {
			return fmt.Sprintf("%c:%d", "RGBA"[i], int(math.Round(v*255)))
		}) {
			return false
		}
		col[i] = float32(f)
		return true
	})
	packed := packColor(*col)
	sr := Rect{X: pos.X, Y: pos.Y, W: swatch, H: swatch}
	c.addRect(w.dl, sr, packed|0xFF000000)
	c.addOutline(w.dl, sr, c.style.FrameBorderColor)
	return changed
}

func packColor(col [4]float32) uint32 {
	var b [4]uint32
	for i, f := range col {
		b[i] = uint32(math.Round(float64(clamp(f, 0, 1)) * 255))
	}
	return b[3]<<24 | b[2]<<16 | b[1]<<8 | b[0]
}

func clamp[T float32 | float64](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
